package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recovr/internal/api"
)

func newNotificationsCommand(ctx *commandContext) *cobra.Command {
	notificationsCmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Inspect match notifications",
	}

	notificationsCmd.AddCommand(newNotificationsListCommand(ctx))
	notificationsCmd.AddCommand(newNotificationsReadCommand(ctx))
	return notificationsCmd
}

func newNotificationsListCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(func(d *deps) error {
				notifications, err := d.notify.ListForUser(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.FromNotifications(notifications))
				}

				unread, err := d.notify.UnreadCount(cmd.Context(), userID)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(notifications))
				for _, notification := range notifications {
					read := ""
					if !notification.Read {
						read = "*"
					}
					rows = append(rows, []string{
						strconv.FormatInt(notification.ID, 10),
						read,
						notification.Title,
						truncate(notification.Message, 64),
						notification.CreatedAt.Format("2006-01-02 15:04"),
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d notifications (%d unread)\n", len(notifications), unread)
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "", "Title", "Message", "Created"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newNotificationsReadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			return ctx.withDeps(func(d *deps) error {
				if err := d.notify.MarkRead(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Notification %d marked as read\n", id)
				return nil
			})
		},
	}
}
