// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

// Package fimenv names the environment variables that form the ABI between
// the packed launcher and the relocated bootloader copy.
package fimenv

import (
	"os"
	"strconv"
)

// Variables published for the stages and payloads: the launcher sets these
// before hand-off, except FIM_DIST and FIM_PORTAL_FILE, which the boot stage
// sets.
const (
	DirGlobal   = "FIM_DIR_GLOBAL"
	DirApp      = "FIM_DIR_APP"
	DirAppBin   = "FIM_DIR_APP_BIN"
	DirBusybox  = "FIM_DIR_BUSYBOX"
	FileBinary  = "FIM_FILE_BINARY"
	DirInstance = "FIM_DIR_INSTANCE"
	DirMount    = "FIM_DIR_MOUNT"
	DirMountExt = "FIM_DIR_MOUNT_EXT"
	Offset      = "FIM_OFFSET"
	Version     = "FIM_VERSION"
	Dist        = "FIM_DIST"
	PortalFile  = "FIM_PORTAL_FILE"
)

// Variables read by the launcher.
const (
	Debug      = "FIM_DEBUG"
	MainOffset = "FIM_MAIN_OFFSET"
	Root       = "FIM_ROOT"
	ReadOnly   = "FIM_RO"
	Overlayfs  = "FIM_FUSE_OVERLAYFS"
	Unionfs    = "FIM_FUSE_UNIONFS"
)

// Set publishes name=value, replacing any prior value.
func Set(name, value string) error {
	return os.Setenv(name, value)
}

// SetInt publishes an integer-valued variable.
func SetInt(name string, value int64) error {
	return os.Setenv(name, strconv.FormatInt(value, 10))
}

// IsSet reports whether name is set to "1".
func IsSet(name string) bool {
	return os.Getenv(name) == "1"
}

// Get returns the value of name, and whether it is non-empty.
func Get(name string) (string, bool) {
	v := os.Getenv(name)
	return v, v != ""
}
