// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/boot"
	"github.com/flatimage/flatimage/pkg/version"
)

func newApp() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fim [COMMAND...]",
		Short:   "fim: self-contained portable application image",
		Example: "  Run the configured application:  ./app.flatimage\n  Grant permissions:               ./app.flatimage fim-perms add audio,gpu",
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(
		newVersionCommand(),
		newPermsCommand(),
		newNotifyCommand(),
		newDesktopCommand(),
		newCmdCommand(),
		newExecCommand(),
	)
	return rootCmd
}
