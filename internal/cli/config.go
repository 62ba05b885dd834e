package cli

import (
	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after defaults, the config file and
COMMITKIT_* environment variables have been merged.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configFormat string

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "output format (yaml, json, toml)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	format := configFormat
	if IsJSONOutput() {
		format = "json"
	}

	data, err := config.Encode(cfg, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
