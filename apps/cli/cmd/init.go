package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initCase  string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter shotlog.yaml",
	Long: `Create a shotlog.yaml in the current directory with the default settings,
ready to edit.

This creates:
  - shotlog.yaml   - Session settings
  - evidence/      - Output folder for images and documents

Examples:
  shotlog init
  shotlog init --case Checkout --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing shotlog.yaml")
	initCmd.Flags().StringVarP(&initCase, "case", "c", "", "Test case name to put in the file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "shotlog.yaml")
	outputDir := filepath.Join(cwd, "evidence")

	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	cfg := config.DefaultConfig()
	cfg.OutputDir = "evidence"
	cfg.Caption = "Describe the screen"
	cfg.Workbook = config.BoolPtr(true)
	if initCase != "" {
		cfg.CaseName = initCase
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", outputDir)

	fmt.Fprintf(cmd.OutOrStdout(), "\nshotlog project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'shotlog start' and press Enter to take a screenshot.\n")

	return nil
}
