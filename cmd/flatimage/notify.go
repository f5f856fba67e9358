// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/boot"
)

func newNotifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "fim-notify on|off",
		Short:     "Toggle startup notifications",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := boot.LoadConfig()
			if err != nil {
				return err
			}
			notify, err := cfg.Notify()
			if err != nil {
				return err
			}
			return notify.Write(args[0] == "on")
		},
	}
}
