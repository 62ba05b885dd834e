package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write .commitkit.yaml (or .json / .toml) with the default rule settings
to the current directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce  bool
	initFormat string
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config file")
	initCmd.Flags().StringVar(&initFormat, "format", "yaml", "config file format (yaml, json, toml)")
}

// runInit implements the init command.
func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	format := strings.ToLower(initFormat)
	switch format {
	case "yaml", "json", "toml":
	default:
		return fmt.Errorf("unsupported format %q (use yaml, json or toml)", initFormat)
	}

	if existing, _ := config.FindConfigFile("."); existing != "" && !initForce {
		printWarning(out, fmt.Sprintf("Config file already exists: %s", existing))
		printInfo(out, "Use --force to overwrite")
		return nil
	}

	path := config.DefaultConfigPath(".", format)
	if err := config.WriteConfig(config.DefaultConfig(), path, initForce); err != nil {
		return err
	}

	printSuccess(out, fmt.Sprintf("Created %s", path))
	printSubtle(out, "Edit the rules section to set scopes or length limits.")
	return nil
}
