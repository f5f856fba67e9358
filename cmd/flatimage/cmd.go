// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"al.essio.dev/pkg/shellescape"
	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/boot"
)

func newCmdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fim-cmd [COMMAND...]",
		Short: "Show or set the default boot command",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := boot.LoadConfig()
			if err != nil {
				return err
			}
			bc, err := boot.LoadBootConfig(cfg.DirApp)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if bc.Cmd != "" {
					fmt.Fprintln(cmd.OutOrStdout(), bc.Cmd)
				}
				return nil
			}
			bc.Cmd = shellescape.QuoteCommand(args)
			return bc.Save(cfg.DirApp)
		},
	}
}
