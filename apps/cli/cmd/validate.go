package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config>...",
	Short: "Validate shotlog config files",
	Long: `Validate config files against the schema and the settings rules without
starting a session.

Examples:
  shotlog validate shotlog.yaml
  shotlog validate .shotlog.json team.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		cfg, err := config.LoadConfig(file)
		if err == nil {
			err = cfg.Validate()
		}
		if err == nil {
			_, err = session.ParseMode(cfg.Mode)
		}
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return &session.ConfigError{Msg: "validation failed"}
	}

	return nil
}
