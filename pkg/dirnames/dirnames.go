// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package dirnames

import (
	"os"
	"path/filepath"

	"github.com/flatimage/flatimage/pkg/version"
)

// GlobalBase is the shared extraction root for every flatimage binary on
// the host.
const GlobalBase = "/tmp/fim"

// GlobalDir returns the path of `/tmp/fim` (or $FIM_DIR_GLOBAL, if set).
//
// NOTE: The environment override exists so that the already-relocated copy
// and the tests resolve the same tree the packed image prepared.
func GlobalDir() string {
	if dir := os.Getenv("FIM_DIR_GLOBAL"); dir != "" {
		return dir
	}
	return GlobalBase
}

// AppDir returns the per-build cache root, `<global>/app/<commit>_<timestamp>`.
// Binaries built from the same commit and timestamp share it.
func AppDir() string {
	return filepath.Join(GlobalDir(), "app", version.Commit+"_"+version.Timestamp)
}

// AppBinDir returns the directory the payloads are extracted into.
func AppBinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// BusyboxDir returns the directory holding the busybox binary and its
// applet symlinks.
func BusyboxDir() string {
	return filepath.Join(AppBinDir(), "busybox")
}

// InstancesDir returns the parent of the per-invocation instance dirs.
func InstancesDir() string {
	return filepath.Join(AppDir(), "instance")
}
