package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a commit message from its parts",
	Long: `Build a correctly formatted Conventional Commits message.

The message is validated before it is printed. When it has an error-level
violation nothing is printed to standard output and the violations are
reported instead.

Examples:
  commitkit build --type feat --scope api --description "add pagination"

  commitkit build --type fix --description "reject empty tokens" \
    --body "Empty bearer tokens were accepted." --footer "Refs: #42"

  git commit -F <(commitkit build --type chore --breaking \
    --description "drop node 16" --footer "BREAKING CHANGE: node 18 is required")`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var (
	buildType        string
	buildScope       string
	buildDescription string
	buildBody        []string
	buildFooters     []string
	buildBreaking    bool
)

func init() {
	buildCmd.Flags().StringVarP(&buildType, "type", "t", "", "commit type (feat, fix, docs, ...)")
	buildCmd.Flags().StringVarP(&buildScope, "scope", "s", "", "optional scope")
	buildCmd.Flags().StringVarP(&buildDescription, "description", "d", "", "short description")
	buildCmd.Flags().StringArrayVarP(&buildBody, "body", "b", nil, "body paragraph (repeatable)")
	buildCmd.Flags().StringArrayVarP(&buildFooters, "footer", "f", nil, "footer line, e.g. 'Refs: #42' (repeatable)")
	buildCmd.Flags().BoolVar(&buildBreaking, "breaking", false, "mark the header with '!'")
}

type buildOutput struct {
	Message string `json:"message"`
	messageReport
}

func runBuild(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	req := commit.Request{
		Type:        buildType,
		Scope:       buildScope,
		Description: buildDescription,
		Body:        buildBody,
		Breaking:    buildBreaking,
	}
	for _, line := range buildFooters {
		f, err := commit.ParseFooter(line)
		if err != nil {
			return ckerrors.ValidationWrap(err, "cli.build", "invalid --footer")
		}
		req.Footers = append(req.Footers, f)
	}

	text, result := commit.ConstructWithPolicy(req, cfg.Policy())
	report := newReport("", result)

	if IsJSONOutput() {
		if err := writeJSON(out, buildOutput{Message: text, messageReport: report}); err != nil {
			return err
		}
	} else if result.Valid() {
		fmt.Fprintln(out, text)
		renderViolations(cmd.ErrOrStderr(), report.Violations)
	} else {
		renderReport(cmd.ErrOrStderr(), report)
	}

	if !result.Valid() {
		return errInvalidMessage
	}
	return nil
}
