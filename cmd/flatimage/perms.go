// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/boot"
	"github.com/flatimage/flatimage/pkg/reserved"
)

func imagePermissions() (reserved.Permissions, error) {
	cfg, err := boot.LoadConfig()
	if err != nil {
		return reserved.Permissions{}, err
	}
	return cfg.Permissions()
}

// splitPerms accepts both comma-separated and space-separated names.
func splitPerms(args []string) []string {
	var names []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func newPermsCommand() *cobra.Command {
	permsCmd := &cobra.Command{
		Use:   "fim-perms",
		Short: "Manage the host permissions granted to the image",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the granted permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			perms, err := imagePermissions()
			if err != nil {
				return err
			}
			names, err := perms.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set PERMS...",
		Short: "Grant exactly the listed permissions, revoking the rest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			perms, err := imagePermissions()
			if err != nil {
				return err
			}
			return perms.Set(splitPerms(args))
		},
	}

	addCmd := &cobra.Command{
		Use:   "add PERMS...",
		Short: "Grant additional permissions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			perms, err := imagePermissions()
			if err != nil {
				return err
			}
			return perms.Add(splitPerms(args))
		},
	}

	delCmd := &cobra.Command{
		Use:   "del PERMS...",
		Short: "Revoke permissions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			perms, err := imagePermissions()
			if err != nil {
				return err
			}
			return perms.Del(splitPerms(args))
		},
	}

	permsCmd.AddCommand(listCmd, setCmd, addCmd, delCmd)
	return permsCmd
}
