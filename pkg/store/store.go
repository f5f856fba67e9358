// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

// Package store manages the shared extraction cache and the per-invocation
// instance directories beneath it.
//
// The cache tree is shared between concurrent invocations and prepared
// idempotently; the instance dir belongs to a single invocation and its
// name is reserved atomically. Stale instances are swept by the janitor
// payload, not by this package.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flatimage/flatimage/pkg/dirnames"
	"github.com/flatimage/flatimage/pkg/filenames"
)

// Instance is the per-invocation scratch tree under the cache root.
type Instance struct {
	// Dir is the unique instance directory.
	Dir string
	// MountDir is the per-invocation mount point, Dir/mount.
	MountDir string
	// MountExtDir is the external mount point, Dir/mount/ext.
	MountExtDir string
	// BootPath is where the extracted bootloader image lands, Dir/fim_boot.
	BootPath string
}

// PrepareAppDirs creates the stable cache tree: the global dir, the
// per-build app dir, bin/, bin/busybox/ and instance/. Already-existing
// directories are success; anything else is not.
func PrepareAppDirs() error {
	for _, dir := range []string{
		dirnames.GlobalDir(),
		dirnames.AppDir(),
		dirnames.AppBinDir(),
		dirnames.BusyboxDir(),
		dirnames.InstancesDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateInstance reserves a fresh uniquely-named instance directory and
// populates its mount tree. The unique name comes from os.MkdirTemp, which
// reserves the name and creates the directory in one step, so concurrent
// invocations can never collide.
func CreateInstance() (*Instance, error) {
	dir, err := os.MkdirTemp(dirnames.InstancesDir(), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create instance directory: %w", err)
	}
	inst := &Instance{
		Dir:         dir,
		MountDir:    filepath.Join(dir, filenames.MountDir),
		MountExtDir: filepath.Join(dir, filenames.MountExtDir),
		BootPath:    filepath.Join(dir, filenames.Boot),
	}
	// The instance dir is freshly reserved, so these must not pre-exist.
	if err := os.Mkdir(inst.MountDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mount directory %q: %w", inst.MountDir, err)
	}
	if err := os.Mkdir(inst.MountExtDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mount directory %q: %w", inst.MountExtDir, err)
	}
	return inst, nil
}
