// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/boot"
)

func newExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fim-exec COMMAND [ARGS...]",
		Short: "Run a command with the extracted payloads",
		Args:  cobra.MinimumNArgs(1),
		// The command's own flags must survive untouched.
		DisableFlagParsing: true,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := boot.LoadConfig()
			if err != nil {
				return err
			}
			boot.Up(cfg)
			if err := boot.RunCommand(cfg, args); err != nil {
				return err
			}
			return boot.WaitNotBusy(cfg.FileBinary)
		},
	}
}
