// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/flatimage/flatimage/pkg/debugutil"
	"github.com/flatimage/flatimage/pkg/filenames"
	"github.com/flatimage/flatimage/pkg/fimenv"
	"github.com/flatimage/flatimage/pkg/lockutil"
	"github.com/flatimage/flatimage/pkg/osutil"
)

// StartPortal launches the extracted portal daemon in the background, keyed
// on this instance's bootloader copy so guests derive a unique channel. The
// daemon dies with this process.
func StartPortal(cfg *Config) error {
	if err := fimenv.Set(fimenv.PortalFile, cfg.FileBoot); err != nil {
		return err
	}
	daemon := filepath.Join(cfg.DirAppBin, filenames.PortalDaemon)
	guest := filepath.Join(cfg.DirAppBin, filenames.Portal)
	if !osutil.FileExists(daemon) {
		return fmt.Errorf("portal daemon not found in %q", daemon)
	}
	if !osutil.FileExists(guest) {
		return fmt.Errorf("portal guest not found in %q", guest)
	}

	return lockutil.WithDirLock(cfg.DirInstance, func() error {
		cmd := exec.Command(daemon, cfg.FileBoot)
		if debugutil.Debug {
			cmd.Stdout = logrus.StandardLogger().WriterLevel(logrus.DebugLevel)
			cmd.Stderr = cmd.Stdout
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: unix.SIGTERM}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start portal daemon: %w", err)
		}
		logrus.Debugf("Portal daemon running with PID %d", cmd.Process.Pid)
		// Reaped by the kernel with us; no Wait here.
		return nil
	})
}
