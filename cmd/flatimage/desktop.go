// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/boot"
	"github.com/flatimage/flatimage/pkg/reserved"
)

func imageDesktop() (*boot.Config, reserved.Desktop, error) {
	cfg, err := boot.LoadConfig()
	if err != nil {
		return nil, reserved.Desktop{}, err
	}
	rec, err := cfg.Desktop()
	return cfg, rec, err
}

func newDesktopCommand() *cobra.Command {
	desktopCmd := &cobra.Command{
		Use:   "fim-desktop",
		Short: "Manage the desktop integration of the image",
	}

	setupCmd := &cobra.Command{
		Use:   "setup FILE.json",
		Short: "Store a desktop entry inside the image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var entry reserved.DesktopEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				return fmt.Errorf("failed to parse %q: %w", args[0], err)
			}
			if entry.Name == "" {
				return fmt.Errorf("desktop entry in %q is missing a name", args[0])
			}
			_, rec, err := imageDesktop()
			if err != nil {
				return err
			}
			return rec.Write(&entry)
		},
	}

	enableCmd := &cobra.Command{
		Use:   "enable ITEMS",
		Short: "Enable integration items (entry,mimetype,icon)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, rec, err := imageDesktop()
			if err != nil {
				return err
			}
			entry, err := rec.Read()
			if err != nil {
				return err
			}
			entry.Enable = strings.Split(args[0], ",")
			if err := rec.Write(entry); err != nil {
				return err
			}
			return boot.IntegrateDesktop(cfg)
		},
	}

	desktopCmd.AddCommand(setupCmd, enableCmd)
	return desktopCmd
}
