package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the commit types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

type typeOutput struct {
	commit.TypeInfo
	ReleaseType commit.ReleaseType `json:"release_type"`
}

func runTypes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	infos := commit.ListTypes()
	rows := make([]typeOutput, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, typeOutput{
			TypeInfo:    info,
			ReleaseType: commit.ReleaseTypeFor(commit.Type(info.Name), false),
		})
	}

	if IsJSONOutput() {
		return writeJSON(out, rows)
	}

	printTitle(out, "Conventional Commits Types (v1.0.0)")
	fmt.Fprintln(out)
	for _, row := range rows {
		release := titleCaser.String(row.ReleaseType.String())
		fmt.Fprintf(out, "  %s %s %s\n",
			styles.Bold.Render(fmt.Sprintf("%-9s", row.Name)),
			styles.Subtle.Render(fmt.Sprintf("%-6s", release)),
			row.Description,
		)
	}
	fmt.Fprintln(out)
	printSubtle(out, "Any type followed by '!' or a BREAKING CHANGE footer is a Major release.")
	return nil
}
