// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/flatimage/flatimage/pkg/fimenv"
)

func publishTestEnv(t *testing.T) string {
	t.Helper()
	global := t.TempDir()
	app := filepath.Join(global, "app", "deadbeef_1700000000")
	instance := filepath.Join(app, "instance", "abc123")
	for name, value := range map[string]string{
		fimenv.DirGlobal:   global,
		fimenv.DirApp:      app,
		fimenv.DirAppBin:   filepath.Join(app, "bin"),
		fimenv.DirBusybox:  filepath.Join(app, "bin", "busybox"),
		fimenv.DirInstance: instance,
		fimenv.DirMount:    filepath.Join(instance, "mount"),
		fimenv.DirMountExt: filepath.Join(instance, "mount", "ext"),
		fimenv.FileBinary:  filepath.Join(global, "app.flatimage"),
		fimenv.Offset:      "123456",
	} {
		t.Setenv(name, value)
	}
	return app
}

func TestLoadConfig(t *testing.T) {
	app := publishTestEnv(t)

	cfg, err := LoadConfig()
	assert.NilError(t, err)
	assert.Equal(t, cfg.DirApp, app)
	assert.Equal(t, cfg.Offset, int64(123456))
	assert.Equal(t, cfg.FileBoot, filepath.Join(cfg.DirInstance, "fim_boot"))
	assert.Equal(t, cfg.FileBash, filepath.Join(cfg.DirAppBin, "bash"))
	assert.Equal(t, cfg.Overlay, OverlayBwrap)

	// Boot-stage additions are re-exported for the payloads.
	assert.Equal(t, os.Getenv(fimenv.Dist), Dist)
	assert.Assert(t, os.Getenv("PID") != "")
}

func TestLoadConfigOverlaySelection(t *testing.T) {
	publishTestEnv(t)
	t.Setenv(fimenv.Unionfs, "1")

	cfg, err := LoadConfig()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Overlay, OverlayFuseUnionfs)
}

func TestLoadConfigMissingEnv(t *testing.T) {
	publishTestEnv(t)
	t.Setenv(fimenv.DirMount, "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "FIM_DIR_MOUNT is not set")
}

func TestLoadConfigMalformedOffset(t *testing.T) {
	publishTestEnv(t)
	t.Setenv(fimenv.Offset, "not-a-number")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "malformed FIM_OFFSET")
}

func TestConfigRecordCarving(t *testing.T) {
	publishTestEnv(t)
	cfg, err := LoadConfig()
	assert.NilError(t, err)

	// Without a baked region every record accessor fails the same way.
	_, err = cfg.Permissions()
	assert.ErrorContains(t, err, "no reserved region")
	_, err = cfg.Notify()
	assert.ErrorContains(t, err, "no reserved region")
	_, err = cfg.Desktop()
	assert.ErrorContains(t, err, "no reserved region")
}
