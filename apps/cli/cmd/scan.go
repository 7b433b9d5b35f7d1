package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/shotlog/packages/core/resume"
	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
	"github.com/abdul-hamid-achik/shotlog/packages/document"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <document.docx>",
	Short: "Show the last screenshot number in a document",
	Long: `Scan a document for "Screenshot N" captions and print the highest N and
the number a resumed session would continue from.

Examples:
  shotlog scan out/Login_v1.docx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.NewDocxBackend().OpenDocument(args[0])
		if err != nil {
			return &session.DocumentOpenError{Path: args[0], Err: err}
		}
		last := resume.FindLastSequenceNumber(doc)
		fmt.Fprintf(cmd.OutOrStdout(), "Last: %d\n", last)
		fmt.Fprintf(cmd.OutOrStdout(), "Next: %d\n", last+1)
		return nil
	},
}
