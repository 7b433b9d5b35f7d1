package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/shotlog/packages/display"
	"github.com/abdul-hamid-achik/shotlog/packages/output"
	"github.com/spf13/cobra"
)

var displaysNoColor bool

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List attached displays",
	Long: `List the displays shotlog can capture. The index column is the value
to pass to --display.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		displays, err := display.NewScreenEnumerator().Enumerate()
		if err != nil {
			return fmt.Errorf("cannot list displays: %w", err)
		}
		output.DisplaysTable(cmd.OutOrStdout(), displays, displaysNoColor)
		return nil
	},
}

func init() {
	displaysCmd.Flags().BoolVar(&displaysNoColor, "no-color", getEnvBool("SHOTLOG_NO_COLOR", false), "Disable colored output (env: SHOTLOG_NO_COLOR)")
}
