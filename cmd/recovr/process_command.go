package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recovr/internal/api"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process <item-id>",
		Short: "Run matching for a newly reported found item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withPipelineLock(func(d *deps) error {
				result, err := d.matchAPI.ProcessItem(cmd.Context(), itemID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, result)
				}
				renderProcessResult(cmd, result)
				return nil
			})
		},
	}
}

func renderProcessResult(cmd *cobra.Command, result *api.ProcessResult) {
	out := cmd.OutOrStdout()
	if result.Skipped {
		fmt.Fprintf(out, "Item %d skipped: %s\n", result.ItemID, result.Reason)
		return
	}

	fmt.Fprintf(out, "Item %d: compared against %d candidates, %d matches, %d notifications sent\n",
		result.ItemID, result.Candidates, len(result.Matches), result.NotificationsSent)
	if len(result.Matches) == 0 {
		return
	}
	fmt.Fprintln(out, renderMatchTable(result.Matches))
}

func renderMatchTable(matches []api.MatchView) string {
	rows := make([][]string, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, []string{
			strconv.FormatInt(match.ItemID, 10),
			truncate(match.Name, 32),
			truncate(match.Description, 40),
			strconv.Itoa(match.MatchCount),
			formatConfidence(match.Confidence),
		})
	}
	return renderTable(
		[]string{"Item", "Name", "Description", "Matches", "Confidence"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	)
}
