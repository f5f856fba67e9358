// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

// Package boot is the second stage: it runs from the extracted bootloader
// copy inside the instance dir, reconstructs its view of the world from the
// environment the packed launcher published, and dispatches the user's
// command. Mount construction and sandbox policy live in the extracted
// payloads; this package only hands off to them.
package boot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/flatimage/flatimage/pkg/filenames"
	"github.com/flatimage/flatimage/pkg/fimenv"
	"github.com/flatimage/flatimage/pkg/reserved"
	"github.com/flatimage/flatimage/pkg/version"
)

// Dist is the distribution label, overridden on compilation time.
var Dist = "TRUNK"

// OverlayType selects the writable-layer backend the second stage asks for.
type OverlayType int

const (
	OverlayBwrap OverlayType = iota
	OverlayFuseOverlayfs
	OverlayFuseUnionfs
)

// Sub-record layout of the reserved region, carved sequentially.
const (
	permissionsRecordOff  = 0
	permissionsRecordSize = 16
	notifyRecordOff       = permissionsRecordOff + permissionsRecordSize
	notifyRecordSize      = 1
	desktopRecordOff      = notifyRecordOff + notifyRecordSize
	desktopRecordSize     = 4096
)

// Config is the boot-stage view of one invocation, rebuilt from the
// environment ABI.
type Config struct {
	Dist     string
	Debug    bool
	Root     bool
	ReadOnly bool
	Overlay  OverlayType

	// Offset is where the filesystem segment starts inside FileBinary.
	Offset int64

	DirGlobal   string
	DirApp      string
	DirAppBin   string
	DirBusybox  string
	DirInstance string
	DirMount    string
	DirMountExt string
	// FileBinary is the packed self-image the user invoked.
	FileBinary string
	// FileBoot is the extracted bootloader copy this process runs from.
	FileBoot string
	FileBash string
}

func requireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("%s is not set; was the launcher stage skipped?", name)
	}
	return v, nil
}

// LoadConfig rebuilds the configuration from the published environment and
// re-exports the boot-stage additions (FIM_DIST, PID).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Dist:     Dist,
		Debug:    fimenv.IsSet(fimenv.Debug),
		Root:     fimenv.IsSet(fimenv.Root),
		ReadOnly: fimenv.IsSet(fimenv.ReadOnly),
	}
	switch {
	case fimenv.IsSet(fimenv.Unionfs):
		cfg.Overlay = OverlayFuseUnionfs
	case fimenv.IsSet(fimenv.Overlayfs):
		cfg.Overlay = OverlayFuseOverlayfs
	default:
		cfg.Overlay = OverlayBwrap
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{fimenv.DirGlobal, &cfg.DirGlobal},
		{fimenv.DirApp, &cfg.DirApp},
		{fimenv.DirAppBin, &cfg.DirAppBin},
		{fimenv.DirBusybox, &cfg.DirBusybox},
		{fimenv.DirInstance, &cfg.DirInstance},
		{fimenv.DirMount, &cfg.DirMount},
		{fimenv.DirMountExt, &cfg.DirMountExt},
		{fimenv.FileBinary, &cfg.FileBinary},
	} {
		v, err := requireEnv(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	rawOffset, err := requireEnv(fimenv.Offset)
	if err != nil {
		return nil, err
	}
	if cfg.Offset, err = strconv.ParseInt(rawOffset, 10, 64); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", fimenv.Offset, err)
	}

	cfg.FileBoot = filepath.Join(cfg.DirInstance, filenames.Boot)
	cfg.FileBash = filepath.Join(cfg.DirAppBin, filenames.Bash)

	if err := fimenv.Set(fimenv.Dist, cfg.Dist); err != nil {
		return nil, err
	}
	if err := fimenv.SetInt("PID", int64(os.Getpid())); err != nil {
		return nil, err
	}
	if err := fimenv.Set(fimenv.Version, version.Version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Permissions returns the capability record of the packed image.
func (cfg *Config) Permissions() (reserved.Permissions, error) {
	region, err := reserved.BakedRegion(cfg.FileBinary)
	if err != nil {
		return reserved.Permissions{}, err
	}
	sub, err := region.Slice(permissionsRecordOff, permissionsRecordSize)
	if err != nil {
		return reserved.Permissions{}, err
	}
	return reserved.Permissions{Region: sub}, nil
}

// Notify returns the notification toggle record of the packed image.
func (cfg *Config) Notify() (reserved.Notify, error) {
	region, err := reserved.BakedRegion(cfg.FileBinary)
	if err != nil {
		return reserved.Notify{}, err
	}
	sub, err := region.Slice(notifyRecordOff, notifyRecordSize)
	if err != nil {
		return reserved.Notify{}, err
	}
	return reserved.Notify{Region: sub}, nil
}

// Desktop returns the desktop entry record of the packed image.
func (cfg *Config) Desktop() (reserved.Desktop, error) {
	region, err := reserved.BakedRegion(cfg.FileBinary)
	if err != nil {
		return reserved.Desktop{}, err
	}
	sub, err := region.Slice(desktopRecordOff, desktopRecordSize)
	if err != nil {
		return reserved.Desktop{}, err
	}
	return reserved.Desktop{Region: sub}, nil
}
