package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
	"github.com/relicta-tech/commitkit/internal/fileutil"
	"github.com/relicta-tech/commitkit/internal/ui"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a commit message interactively",
	Long: `Walk through type, scope, description, body and breaking change with a
live preview of the message and its violations.

The accepted message is printed, or written to --output. Point --output at
the file git passes to prepare-commit-msg to use it as a hook.`,
	Args: cobra.NoArgs,
	RunE: runCompose,
}

var composeOutput string

func init() {
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "", "write the message to this file")
}

func runCompose(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	msg, result, err := ui.RunComposeTUI(cfg.Policy())
	if err != nil {
		return err
	}
	if result != ui.ComposeAccepted {
		printInfo(cmd.ErrOrStderr(), "Compose canceled")
		return nil
	}

	if composeOutput == "" {
		fmt.Fprintln(out, msg)
		return nil
	}

	if err := fileutil.AtomicWriteFile(composeOutput, []byte(msg+"\n"), 0o644); err != nil {
		return ckerrors.IOWrap(err, "cli.compose", "failed to write message")
	}
	printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Wrote %s", composeOutput))
	return nil
}
