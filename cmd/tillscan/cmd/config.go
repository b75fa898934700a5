package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tillscan/tillscan/internal/config"
)

// configCmd prints the effective configuration after merging defaults,
// config file, environment variables, and flags.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration as YAML after merging defaults,
the config file, environment variables, and command-line flags.

Examples:
  tillscan config
  tillscan config --paths`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		showPaths, _ := cmd.Flags().GetBool("paths")
		if showPaths {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.GetConfigSearchPaths(), "\n"))
			return err
		}

		cfg := GetConfig()
		if used := GetConfigLoader().GetConfigFileUsed(); used != "" {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", used); err != nil {
				return err
			}
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("paths", false, "list configuration search paths and exit")
}

// GetConfigCommand returns the config command for testing purposes.
func GetConfigCommand() *cobra.Command {
	return configCmd
}
