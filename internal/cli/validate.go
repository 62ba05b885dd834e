package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:     "validate [FILE...]",
	Aliases: []string{"lint"},
	Short:   "Validate commit messages",
	Long: `Validate one or more commit messages against Conventional Commits v1.0.0.

Messages are read from the given files, from --message, or from standard
input when neither is given ("-" also reads standard input). Lines starting
with '#' and everything below git's scissors line are dropped from files,
so the command can be used directly as a commit-msg hook.

The exit code is 1 when any message has an error-level violation.

Examples:
  # As a git commit-msg hook
  commitkit validate "$1"

  # Inline
  commitkit validate -m "feat(api): add pagination"

  # Re-validate on every save while editing
  commitkit validate --watch .git/COMMIT_EDITMSG`,
	RunE: runValidate,
}

var (
	validateMessage       string
	validateWatch         bool
	validateStripComments bool
)

// watchDebounce is how long a burst of file events is coalesced.
const watchDebounce = 250 * time.Millisecond

func init() {
	validateCmd.Flags().StringVarP(&validateMessage, "message", "m", "", "validate this message instead of reading files")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate the file whenever it changes")
	validateCmd.Flags().BoolVar(&validateStripComments, "strip-comments", true, "drop '#' comment lines and the scissors section from files")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	policy := cfg.Policy()

	if validateWatch {
		if len(args) != 1 || args[0] == stdinName || validateMessage != "" {
			return fmt.Errorf("--watch needs exactly one message file")
		}
		return watchAndValidate(commandContext(cmd), cmd, args[0], policy)
	}

	var reports []messageReport
	if validateMessage != "" {
		if len(args) > 0 {
			return fmt.Errorf("use either --message or file arguments, not both")
		}
		reports = []messageReport{newReport("", commit.ValidateMessageWithPolicy(validateMessage, policy))}
	} else {
		if len(args) == 0 {
			args = []string{stdinName}
		}
		var err error
		reports, err = validateFiles(cmd, args, policy)
		if err != nil {
			return err
		}
	}

	if err := printReports(out, reports); err != nil {
		return err
	}

	for _, r := range reports {
		if !r.Valid {
			return errInvalidMessage
		}
	}
	return nil
}

// validateFiles validates the named files concurrently. Reports are
// returned in argument order.
func validateFiles(cmd *cobra.Command, names []string, policy commit.Policy) ([]messageReport, error) {
	reports := make([]messageReport, len(names))

	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return ckerrors.Canceled(err, "cli.validateFiles")
			}
			src, err := readMessageFile(cmd, name, validateStripComments)
			if err != nil {
				return err
			}
			reports[i] = newReport(src.Name, commit.ValidateMessageWithPolicy(src.Text, policy))
			logger.Debug("validated", "source", src.Name, "valid", reports[i].Valid, "violations", len(reports[i].Violations))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func printReports(w io.Writer, reports []messageReport) error {
	if IsJSONOutput() {
		if len(reports) == 1 {
			return writeJSON(w, reports[0])
		}
		return writeJSON(w, reports)
	}

	for _, r := range reports {
		renderReport(w, r)
	}
	return nil
}

// watchAndValidate validates path, then again after every change, until ctx
// is done. The parent directory is watched because editors often replace
// the file instead of writing it in place.
func watchAndValidate(ctx context.Context, cmd *cobra.Command, path string, policy commit.Policy) error {
	out := cmd.OutOrStdout()

	validateOnce := func() {
		src, err := readMessageFile(cmd, path, validateStripComments)
		if err != nil {
			printError(out, err.Error())
			return
		}
		if err := printReports(out, []messageReport{newReport(src.Name, commit.ValidateMessageWithPolicy(src.Text, policy))}); err != nil {
			logger.Error("failed to print report", "error", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ckerrors.IOWrap(err, "cli.watch", "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return ckerrors.IOWrap(err, "cli.watch", "failed to watch "+path)
	}

	validateOnce()
	printSubtle(out, fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path))

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
				debounce.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-debounce.C:
			fmt.Fprintf(out, "\n[%s] ", time.Now().Format("15:04:05"))
			validateOnce()

		case <-ctx.Done():
			printSubtle(out, "Stopped watching")
			return nil
		}
	}
}
