// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package osutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Self returns the absolute path of the currently running executable.
//
// This resolves /proc/self/exe rather than os.Args[0]: the launcher must
// find its own on-disk image even when invoked through PATH or a symlink.
func Self() (string, error) {
	path, err := os.Readlink("/proc/self/exe")
	if err != nil {
		return "", fmt.Errorf("failed to resolve own executable path: %w", err)
	}
	return path, nil
}

// FileExists reports whether path exists and is accessible.
// It returns true for any non-ErrNotExist stat result, including permission errors.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// HasFuse reports whether the kernel knows the fuse filesystem. The check
// is advisory; mounting is the second stage's problem.
func HasFuse() bool {
	data, err := os.ReadFile("/proc/filesystems")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(strings.TrimPrefix(line, "nodev")) == "fuse" {
			return true
		}
	}
	return false
}
