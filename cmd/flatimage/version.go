// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flatimage/flatimage/pkg/version"
)

// main answers fim-version before any other work, in the packed image and
// the relocated copy alike; this command makes it discoverable in `fim help`.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fim-version",
		Short: "Print the image version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return nil
		},
	}
}
