package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
	"github.com/relicta-tech/commitkit/internal/fileutil"
)

// scissorsLine marks the start of the diff that "git commit -v" appends.
const scissorsLine = "# ------------------------ >8 ------------------------"

// messageSource is a raw message and where it came from.
type messageSource struct {
	Name string
	Text string
}

// stdinName is the argument and label used for standard input.
const stdinName = "-"

// readMessageFile reads a message file, or standard input for "-".
func readMessageFile(cmd *cobra.Command, name string, stripComments bool) (messageSource, error) {
	const op = "cli.readMessageFile"

	var data []byte
	var err error
	if name == stdinName {
		data, err = fileutil.ReadLimited(cmd.InOrStdin(), fileutil.MaxMessageSize)
		if errors.Is(err, fileutil.ErrTooLarge) {
			return messageSource{}, tooLarge(op, "standard input")
		}
		if err != nil {
			return messageSource{}, ckerrors.IOWrap(err, op, "failed to read standard input")
		}
		name = "stdin"
	} else {
		data, err = fileutil.ReadFileLimited(name, fileutil.MaxMessageSize)
		if errors.Is(err, fs.ErrNotExist) {
			return messageSource{}, ckerrors.NotFound(op, fmt.Sprintf("message file %s does not exist", name))
		}
		if errors.Is(err, fileutil.ErrTooLarge) {
			return messageSource{}, tooLarge(op, name)
		}
		if err != nil {
			return messageSource{}, ckerrors.IOWrap(err, op, fmt.Sprintf("failed to read %s", name))
		}
	}

	text := string(data)
	if stripComments {
		text = stripGitComments(text)
	}
	return messageSource{Name: name, Text: text}, nil
}

func tooLarge(op, name string) error {
	return ckerrors.IO(op, fmt.Sprintf("%s is larger than %d bytes; not a commit message", name, fileutil.MaxMessageSize))
}

// singleSource resolves the one message a command operates on: the inline
// message, a file argument, or standard input.
func singleSource(cmd *cobra.Command, args []string, inline string, stripComments bool) (messageSource, error) {
	switch {
	case inline != "" && len(args) > 0:
		return messageSource{}, errors.New("use either --message or a file argument, not both")
	case inline != "":
		return messageSource{Name: "message", Text: inline}, nil
	case len(args) > 0:
		return readMessageFile(cmd, args[0], stripComments)
	default:
		return readMessageFile(cmd, stdinName, stripComments)
	}
}

// stripGitComments removes what git itself strips from a commit message
// file: comment lines and everything below the scissors line.
func stripGitComments(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line == scissorsLine {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
