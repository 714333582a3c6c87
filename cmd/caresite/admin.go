// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"caresite/internal/store"
)

func newAdminCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminCreateCommand(ctx))
	cmd.AddCommand(newAdminListCommand(ctx))
	cmd.AddCommand(newAdminReset2FACommand(ctx))
	return cmd
}

func newAdminCreateCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create <email> <password>",
		Short: "Create an admin; 2FA is set up on first login",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.ToLower(strings.TrimSpace(args[0]))
			if email == "" || len(args[1]) < 8 {
				return fmt.Errorf("an email and a password of at least 8 characters are required")
			}
			if name == "" {
				name = email
			}

			pools, err := ctx.openPools()
			if err != nil {
				return err
			}
			defer pools.Close()

			u, err := store.NewUserStore(pools.Service).Create(cmd.Context(), email, args[1], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the email)")
	return cmd
}

func newAdminListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := ctx.openPools()
			if err != nil {
				return err
			}
			defer pools.Close()

			users, err := store.NewUserStore(pools.Service).List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				twoFA := "pending"
				if u.TOTPEnabled {
					twoFA = "enabled"
				}
				rows = append(rows, []string{u.Email, u.DisplayName, twoFA, u.CreatedAt.Format("2006-01-02")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Email", "Name", "2FA", "Created"}, rows))
			return nil
		},
	}
}

func newAdminReset2FACommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-2fa <email>",
		Short: "Clear an admin's authenticator so it is enrolled again on next login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := ctx.openPools()
			if err != nil {
				return err
			}
			defer pools.Close()

			users := store.NewUserStore(pools.Service)
			u, err := users.FindByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("no admin with email %s", args[0])
			}
			if err := users.ResetTOTP(cmd.Context(), u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "2FA reset for %s\n", u.Email)
			return nil
		},
	}
}
