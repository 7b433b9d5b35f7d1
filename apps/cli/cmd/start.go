package cmd

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new capture session",
	Long: `Start a new capture session and evidence document.

While the session runs, type on stdin:
  <enter> or the hotkey word   take a screenshot
  capture <text>               take a screenshot with a one-off caption
  caption <text>               change the caption for later screenshots
  shell hide|show              hide or show the taskbar yourself
  stop                         save the document and finish

Examples:
  shotlog start --case Login --caption "Login page"
  shotlog start -c Checkout --mode multi --display 0 --display 2
  shotlog start -c Checkout --mode all --workbook --delete-images
  shotlog start -c Smoke --trigger-dir ./drop --no-stdin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, "")
	},
}

func init() {
	registerSessionFlags(startCmd)
}
