// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/flatimage/flatimage/pkg/debugutil"
	"github.com/flatimage/flatimage/pkg/fimenv"
	"github.com/flatimage/flatimage/pkg/osutil"
	"github.com/flatimage/flatimage/pkg/relocate"
	"github.com/flatimage/flatimage/pkg/version"
)

func main() {
	if fimenv.IsSet(fimenv.Debug) {
		logrus.SetLevel(logrus.DebugLevel)
		debugutil.Debug = true
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Answered before any extraction or filesystem work.
	if len(os.Args) > 1 && os.Args[1] == "fim-version" {
		fmt.Println(version.Version)
		return
	}
	if err := fimenv.Set(fimenv.Version, version.Version); err != nil {
		logrus.Fatal(err)
	}

	if !osutil.HasFuse() {
		logrus.Warn("The 'fuse' filesystem is not available; mounting will fail later")
	}

	self, err := osutil.Self()
	if err != nil {
		logrus.Fatal(err)
	}
	packed, err := relocate.Needed(self)
	if err != nil {
		logrus.Fatal(err)
	}
	if packed {
		logrus.Debug("Running the packed image; relocating")
		err := relocate.Run(self, os.Args)
		// A successful relocation never returns.
		logrus.Fatal(fmt.Errorf("relocation failed: %w", err))
	}

	if err := newApp().Execute(); err != nil {
		logrus.Fatal(err)
	}
}
