package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"recovr/internal/api"
)

func newRequestCommand(ctx *commandContext) *cobra.Command {
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Submit and inspect search requests",
	}

	requestCmd.AddCommand(newRequestSubmitCommand(ctx))
	requestCmd.AddCommand(newRequestResultsCommand(ctx))
	requestCmd.AddCommand(newRequestListCommand(ctx))
	return requestCmd
}

func newRequestSubmitCommand(ctx *commandContext) *cobra.Command {
	var (
		userID      int64
		description string
		threshold   float64
		category    string
		location    string
		radius      float64
		fromFlag    string
		toFlag      string
	)

	cmd := &cobra.Command{
		Use:   "submit <image-path>",
		Short: "Submit a search request for later processing",
		Long:  "Stores the image and records a pending request. Matching runs on the first `request results` fetch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searchParams, err := buildSearchParams(threshold, category, location, radius, fromFlag, toFlag)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			return ctx.withDeps(func(d *deps) error {
				view, err := d.matchAPI.SubmitRequest(cmd.Context(), file, args[0], api.SubmitParams{
					UserID:       userID,
					Description:  description,
					SearchParams: searchParams,
				})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Search request %s submitted (status %s)\n", view.PublicID, view.Status)
				fmt.Fprintf(out, "Fetch results with: recovr request results %s\n", view.PublicID)
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Submitting user id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the lost item")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Similarity threshold in (0, 1]")
	cmd.Flags().StringVar(&category, "category", "", "Expected item category")
	cmd.Flags().StringVar(&location, "location", "", "Where the item was lost")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Location radius in kilometers")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Earliest report date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Latest report date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newRequestResultsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "results <public-id>",
		Short: "Fetch results for a search request, computing them on first access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipelineLock(func(d *deps) error {
				view, err := d.matchAPI.RequestResults(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				renderRequestView(cmd, view)
				return nil
			})
		},
	}
}

func newRequestListCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's search requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(func(d *deps) error {
				requests, err := d.reqStore.ListForUser(cmd.Context(), userID)
				if err != nil {
					return err
				}

				views := make([]api.SearchRequestView, 0, len(requests))
				for _, request := range requests {
					views = append(views, api.FromRequest(request))
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, views)
				}

				rows := make([][]string, 0, len(views))
				for _, view := range views {
					rows = append(rows, []string{
						view.PublicID,
						displayStatus(view.Status),
						displayCategory(view.ExpectedCategory),
						strconv.Itoa(view.TotalMatchesFound),
						view.CreatedAt,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Request", "Status", "Category", "Matches", "Submitted"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderRequestView(cmd *cobra.Command, view *api.SearchRequestView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Request %s: %s, %d matches\n", view.PublicID, displayStatus(view.Status), view.TotalMatchesFound)
	if view.ProcessedAt != "" {
		fmt.Fprintf(out, "Processed: %s\n", view.ProcessedAt)
	}
	if len(view.Matches) > 0 {
		fmt.Fprintln(out, renderMatchTable(view.Matches))
	}
}
