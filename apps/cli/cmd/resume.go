package cmd

import (
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <document.docx>",
	Short: "Resume a session in an existing document",
	Long: `Resume capturing into an existing evidence document. Numbering continues
after the highest "Screenshot N" found in the document, and images are
written next to it. The case name and version of the earlier session are
reused unless given again.

Examples:
  shotlog resume out/Login_v1.docx
  shotlog resume out/Login_v1.docx --caption "After fix" --workbook`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, args[0])
	},
}

func init() {
	registerSessionFlags(resumeCmd)
}
