package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recovr/internal/api"
	"recovr/internal/catalog"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Manage catalog items",
	}

	itemsCmd.AddCommand(newItemsAddCommand(ctx))
	itemsCmd.AddCommand(newItemsListCommand(ctx))
	itemsCmd.AddCommand(newItemsShowCommand(ctx))
	itemsCmd.AddCommand(newItemsClaimCommand(ctx))
	itemsCmd.AddCommand(newItemsStatsCommand(ctx))
	return itemsCmd
}

func newItemsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		name        string
		description string
		status      string
		category    string
		location    string
		imageURL    string
		userID      int64
		runMatching bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedStatus, ok := catalog.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q (want LOST, FOUND, or CLAIMED)", status)
			}
			var parsedCategory catalog.Category
			if category != "" {
				parsedCategory, ok = catalog.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
			}

			run := func(d *deps) error {
				item := &catalog.Item{
					Name:        name,
					Description: description,
					Status:      parsedStatus,
					Category:    parsedCategory,
					Location:    location,
					ImageURL:    imageURL,
				}
				if userID > 0 {
					item.ReportedBy = &userID
				}

				stored, err := d.catalog.Insert(cmd.Context(), item)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added item %d (%s)\n", stored.ID, stored.Name)

				if runMatching && stored.Status == catalog.StatusFound && stored.HasImage() {
					result, err := d.matchAPI.ProcessItem(cmd.Context(), stored.ID)
					if err != nil {
						return err
					}
					renderProcessResult(cmd, result)
				}
				return nil
			}

			if runMatching {
				return ctx.withPipelineLock(run)
			}
			return ctx.withDeps(run)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Item name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Item description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Item status (LOST, FOUND, CLAIMED)")
	cmd.Flags().StringVar(&category, "category", "", "Item category")
	cmd.Flags().StringVar(&location, "location", "", "Where the item was lost or found")
	cmd.Flags().StringVarP(&imageURL, "image", "i", "", "Image reference (filename under an upload directory)")
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Reporting user id")
	cmd.Flags().BoolVar(&runMatching, "match", false, "Run the matching pipeline immediately for found items")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newItemsListCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedStatus, ok := catalog.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q (want LOST, FOUND, or CLAIMED)", status)
			}

			return ctx.withDeps(func(d *deps) error {
				items, err := d.catalog.ItemsByStatus(cmd.Context(), parsedStatus)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.FromItems(items))
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						truncate(item.Name, 32),
						displayCategory(string(item.Category)),
						dashIfEmpty(item.Location),
						yesNo(item.HasImage()),
						item.ReportedAt.Format("2006-01-02"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Category", "Location", "Image", "Reported"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "LOST", "Status to list (LOST, FOUND, CLAIMED)")
	return cmd
}

func newItemsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withDeps(func(d *deps) error {
				item, err := d.catalog.GetByID(cmd.Context(), itemID)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", itemID)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.FromItem(item))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Item %d: %s\n", item.ID, item.Name)
				fmt.Fprintf(out, "  Status:      %s\n", displayStatus(string(item.Status)))
				fmt.Fprintf(out, "  Category:    %s\n", displayCategory(string(item.Category)))
				fmt.Fprintf(out, "  Location:    %s\n", dashIfEmpty(item.Location))
				fmt.Fprintf(out, "  Image:       %s\n", dashIfEmpty(item.ImageURL))
				fmt.Fprintf(out, "  Description: %s\n", dashIfEmpty(item.Description))
				fmt.Fprintf(out, "  Reported:    %s\n", item.ReportedAt.Format("2006-01-02 15:04"))
				return nil
			})
		},
	}
}

func newItemsClaimCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <item-id>",
		Short: "Mark an item as claimed by its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withDeps(func(d *deps) error {
				if err := d.catalog.UpdateStatus(cmd.Context(), itemID, catalog.StatusClaimed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d marked as claimed\n", itemID)
				return nil
			})
		},
	}
}

func newItemsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show item counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(func(d *deps) error {
				stats, err := d.catalog.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, stats)
				}

				rows := make([][]string, 0, len(stats))
				for _, status := range catalog.AllStatuses() {
					rows = append(rows, []string{
						displayStatus(string(status)),
						strconv.Itoa(stats[status]),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Status", "Items"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
