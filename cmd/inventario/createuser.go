// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inventario/internal/store"
)

var (
	newUsername string
	newPassword string
	newIsStaff  bool
)

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create a login account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(newUsername)
		if username == "" || newPassword == "" {
			return errors.New("--username and --password are required")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		u, err := store.NewUserStore(db).Create(cmd.Context(), username, newPassword, newIsStaff)
		if errors.Is(err, store.ErrDuplicateUsername) {
			return fmt.Errorf("user %q already exists", username)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "login name")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "login password")
	createUserCmd.Flags().BoolVar(&newIsStaff, "staff", false, "mark the account as staff")
}
