// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"os"
	"testing"

	"gotest.tools/v3/assert"
)

func TestBootConfigMissingFile(t *testing.T) {
	cfg, err := LoadBootConfig(t.TempDir())
	assert.NilError(t, err)
	assert.Equal(t, cfg.Cmd, "")
}

func TestBootConfigRoundTrip(t *testing.T) {
	appDir := t.TempDir()
	want := &BootConfig{Cmd: "/usr/bin/app --fullscreen"}
	assert.NilError(t, want.Save(appDir))

	got, err := LoadBootConfig(appDir)
	assert.NilError(t, err)
	assert.Equal(t, got.Cmd, want.Cmd)
}

func TestBootConfigMalformed(t *testing.T) {
	appDir := t.TempDir()
	assert.NilError(t, os.WriteFile(bootConfigPath(appDir), []byte("\tcmd: ["), 0o644))

	_, err := LoadBootConfig(appDir)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestCommandArgv(t *testing.T) {
	publishTestEnv(t)
	cfg, err := LoadConfig()
	assert.NilError(t, err)

	// An explicit argv wins over everything.
	argv, err := CommandArgv(cfg, []string{"echo", "hi"})
	assert.NilError(t, err)
	assert.DeepEqual(t, argv, []string{"echo", "hi"})

	// No argv and no configured command falls back to the shell.
	assert.NilError(t, os.MkdirAll(cfg.DirApp, 0o755))
	argv, err = CommandArgv(cfg, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, argv, []string{cfg.FileBash})

	// The configured command is split shell-style.
	bc := &BootConfig{Cmd: `/usr/bin/app --name "two words"`}
	assert.NilError(t, bc.Save(cfg.DirApp))
	argv, err = CommandArgv(cfg, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, argv, []string{"/usr/bin/app", "--name", "two words"})
}

func TestWaitNotBusyIdleFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "binary")
	assert.NilError(t, err)
	assert.NilError(t, f.Close())

	assert.NilError(t, WaitNotBusy(f.Name()))
}

func TestWaitNotBusyMissingFile(t *testing.T) {
	err := WaitNotBusy(t.TempDir() + "/missing")
	assert.ErrorContains(t, err, "no such file")
}
