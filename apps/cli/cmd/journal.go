package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/shotlog/packages/journal"
	"github.com/abdul-hamid-achik/shotlog/packages/output"
	"github.com/spf13/cobra"
)

var (
	journalSessionFlag string
	journalNoColor     bool
)

var journalCmd = &cobra.Command{
	Use:   "journal <journal.db>",
	Short: "List sessions recorded in a journal",
	Long: `List the sessions recorded in a journal database, newest first, or the
screenshots of one session.

Examples:
  shotlog journal evidence.db
  shotlog journal evidence.db --session 3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: journalCommand,
}

func init() {
	journalCmd.Flags().StringVarP(&journalSessionFlag, "session", "s", "", "Show the screenshots of the session with this ID or ID prefix")
	journalCmd.Flags().BoolVar(&journalNoColor, "no-color", getEnvBool("SHOTLOG_NO_COLOR", false), "Disable colored output (env: SHOTLOG_NO_COLOR)")
}

func journalCommand(cmd *cobra.Command, args []string) error {
	j, err := journal.Open(args[0])
	if err != nil {
		return err
	}
	defer j.Close()

	sessions, err := j.Sessions()
	if err != nil {
		return err
	}

	if journalSessionFlag == "" {
		if len(sessions) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No sessions recorded\n")
			return nil
		}
		output.SessionsTable(cmd.OutOrStdout(), sessions, journalNoColor)
		return nil
	}

	var matches []journal.Session
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, journalSessionFlag) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("no session matches %q", journalSessionFlag)
	case 1:
	default:
		return fmt.Errorf("%d sessions match %q, use a longer prefix", len(matches), journalSessionFlag)
	}

	entries, err := j.Entries(matches[0].ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", matches[0].CaseName, matches[0].Document)
	output.EntriesTable(cmd.OutOrStdout(), entries, journalNoColor)
	return nil
}
