package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"recovr/internal/api"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		threshold float64
		category  string
		location  string
		radius    float64
		fromFlag  string
		toFlag    string
	)

	cmd := &cobra.Command{
		Use:   "search <image-path>",
		Short: "Search the catalog with an image",
		Long:  "Compares the given image against catalog items with images and prints ranked matches. No notifications are sent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := buildSearchParams(threshold, category, location, radius, fromFlag, toFlag)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			return ctx.withPipelineLock(func(d *deps) error {
				result, err := d.matchAPI.SearchUpload(cmd.Context(), file, args[0], params)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, result)
				}
				renderSearchResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Similarity threshold in (0, 1]; defaults to the configured value")
	cmd.Flags().StringVar(&category, "category", "", "Restrict to one item category")
	cmd.Flags().StringVar(&location, "location", "", "Restrict to items near a location")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Location radius in kilometers")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Earliest report date (YYYY-MM-DD); defaults to one month ago")
	cmd.Flags().StringVar(&toFlag, "to", "", "Latest report date (YYYY-MM-DD); defaults to now")
	return cmd
}

func buildSearchParams(threshold float64, category, location string, radius float64, fromFlag, toFlag string) (api.SearchParams, error) {
	params := api.SearchParams{
		Threshold: threshold,
		Category:  category,
		Location:  location,
		Radius:    radius,
	}
	if fromFlag != "" {
		from, err := time.Parse("2006-01-02", fromFlag)
		if err != nil {
			return api.SearchParams{}, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", fromFlag)
		}
		params.DateFrom = from
	}
	if toFlag != "" {
		to, err := time.Parse("2006-01-02", toFlag)
		if err != nil {
			return api.SearchParams{}, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", toFlag)
		}
		params.DateTo = to.Add(24*time.Hour - time.Nanosecond)
	}
	return params, nil
}

func renderSearchResult(cmd *cobra.Command, result *api.SearchResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Searched %d candidates at threshold %.2f: %d matches\n",
		result.Candidates, result.Threshold, len(result.Matches))
	if len(result.Matches) > 0 {
		fmt.Fprintln(out, renderMatchTable(result.Matches))
	}
}
