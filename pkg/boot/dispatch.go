// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// CommandArgv resolves the argv to hand off: an explicit argv wins, then
// the configured default command, then an interactive shell from the
// extracted payloads.
func CommandArgv(cfg *Config, argv []string) ([]string, error) {
	if len(argv) > 0 {
		return argv, nil
	}
	bc, err := LoadBootConfig(cfg.DirApp)
	if err != nil {
		return nil, err
	}
	if bc.Cmd == "" {
		return []string{cfg.FileBash}, nil
	}
	split, err := shlex.Split(bc.Cmd)
	if err != nil {
		return nil, fmt.Errorf("malformed boot command %q: %w", bc.Cmd, err)
	}
	if len(split) == 0 {
		return []string{cfg.FileBash}, nil
	}
	return split, nil
}

// RunCommand hands argv off to the extracted payloads with the published
// environment and the payload directories on PATH. The sandbox policy
// around the command is the payloads' concern, not ours.
func RunCommand(cfg *Config, argv []string) error {
	argv, err := CommandArgv(cfg, argv)
	if err != nil {
		return err
	}
	path := strings.Join([]string{cfg.DirAppBin, cfg.DirBusybox, os.Getenv("PATH")}, ":")
	if err := os.Setenv("PATH", path); err != nil {
		return err
	}

	logrus.Debugf("Dispatching %q", argv)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Up brings the boot-stage services up: the portal daemon and the desktop
// integration refresh. Both are side effects; failures are logged and the
// boot continues.
func Up(cfg *Config) {
	if err := StartPortal(cfg); err != nil {
		logrus.WithError(err).Warn("Failed to start portal daemon")
	}
	if err := IntegrateDesktop(cfg); err != nil {
		logrus.WithError(err).Warn("Failed to refresh desktop integration")
	}
}
