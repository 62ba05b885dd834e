package cli

import (
	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
)

var parseCmd = &cobra.Command{
	Use:   "parse [FILE]",
	Short: "Show the structure of a commit message",
	Long: `Parse a commit message into its type, scope, description, body
paragraphs and footers.

The message is read from FILE, --message or standard input. With --json the
structured message is printed as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var parseMessage string

func init() {
	parseCmd.Flags().StringVarP(&parseMessage, "message", "m", "", "parse this message instead of reading a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	src, err := singleSource(cmd, args, parseMessage, true)
	if err != nil {
		return err
	}

	msg, err := commit.Parse(src.Text)
	if err != nil {
		// Reported the same way validate reports a header it cannot read.
		report := newReport(src.Name, commit.ValidateMessageWithPolicy(src.Text, cfg.Policy()))
		if IsJSONOutput() {
			if err := writeJSON(out, report); err != nil {
				return err
			}
		} else {
			renderReport(out, report)
		}
		return errInvalidMessage
	}

	if IsJSONOutput() {
		return writeJSON(out, msg)
	}
	renderMessage(out, msg)
	return nil
}
