package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	"github.com/relicta-tech/commitkit/internal/service/version"
)

var impactCmd = &cobra.Command{
	Use:   "impact [FILE...]",
	Short: "Compute the release impact of commit messages",
	Long: `Compute the semantic version bump implied by one or more commit messages.

Breaking changes give a major release, feat a minor release, fix and perf a
patch release. With --current the next version is computed as well.

Examples:
  commitkit impact -m "feat: add export" --current v1.4.2

  git log --format=%B -n1 | commitkit impact --current 0.9.0`,
	RunE: runImpact,
}

var (
	impactMessages []string
	impactCurrent  string
)

func init() {
	impactCmd.Flags().StringArrayVarP(&impactMessages, "message", "m", nil, "commit message (repeatable)")
	impactCmd.Flags().StringVar(&impactCurrent, "current", "", "current version, e.g. v1.4.2")
}

func runImpact(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var sources []messageSource
	for i, text := range impactMessages {
		sources = append(sources, messageSource{Name: fmt.Sprintf("message %d", i+1), Text: text})
	}
	if len(sources) == 0 && len(args) == 0 {
		args = []string{stdinName}
	}
	for _, name := range args {
		src, err := readMessageFile(cmd, name, true)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	messages := make([]*commit.Message, 0, len(sources))
	for _, src := range sources {
		msg, err := commit.Parse(src.Text)
		if err != nil {
			renderReport(cmd.ErrOrStderr(), newReport(src.Name, commit.ValidateMessageWithPolicy(src.Text, cfg.Policy())))
			return errInvalidMessage
		}
		messages = append(messages, msg)
	}

	impact, err := version.NewService().Analyze(messages, impactCurrent)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return writeJSON(out, impact)
	}
	renderImpact(out, impact, len(messages))
	return nil
}
