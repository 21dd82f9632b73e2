package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registry users",
	}

	usersCmd.AddCommand(newUsersAddCommand(ctx))
	usersCmd.AddCommand(newUsersShowCommand(ctx))
	return usersCmd
}

func newUsersAddCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(func(d *deps) error {
				user, err := d.users.Create(cmd.Context(), args[0], email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	return cmd
}

func newUsersShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(func(d *deps) error {
				user, err := d.users.FindByUsername(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %q not found", args[0])
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "User %d: %s\n", user.ID, user.Username)
				fmt.Fprintf(out, "  Email:   %s\n", dashIfEmpty(user.Email))
				fmt.Fprintf(out, "  Created: %s\n", user.CreatedAt.Format("2006-01-02 15:04"))
				return nil
			})
		},
	}
}
