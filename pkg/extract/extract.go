// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract materializes payload spans of the self-image into the
// shared extraction cache.
//
// Extraction is idempotent and deliberately lock-free: a destination that
// already exists is never rewritten, and concurrent extractors racing on
// the same destination both write the same deterministic bytes, so either
// winner is fine.
package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/flatimage/flatimage/pkg/elfimage"
	"github.com/flatimage/flatimage/pkg/filenames"
)

// payloadMode is owner+group rwx, matching what the sandbox payloads need
// to be executable by the invoking user and group.
const payloadMode = 0o770

// Span copies the bytes of span from src to dest. If dest already exists,
// whatever its content, nothing is done: repeated runs of the same image
// cost a stat per payload.
func Span(src *os.File, span elfimage.Span, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		logrus.Debugf("Payload %q already extracted", dest)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %q: %w", dest, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, payloadMode)
	if err != nil {
		return fmt.Errorf("failed to open %q for writing: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, io.NewSectionReader(src, span.Begin, span.Len())); err != nil {
		return fmt.Errorf("failed to extract payload to %q: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", dest, err)
	}
	// The umask may have stripped bits on create.
	if err := os.Chmod(dest, payloadMode); err != nil {
		return fmt.Errorf("failed to set permissions on %q: %w", dest, err)
	}
	return nil
}

// Aliases creates the dwarfs and mkdwarfs symlinks under binDir, both
// pointing at the dwarfs all-in-one binary. Pre-existing links (or any
// other symlink failure) are tolerated.
func Aliases(binDir string) {
	target := filepath.Join(binDir, filenames.DwarfsAIO)
	for _, alias := range []string{filenames.Dwarfs, filenames.Mkdwarfs} {
		if err := os.Symlink(target, filepath.Join(binDir, alias)); err != nil {
			logrus.Debugf("Skipping alias symlink %q: %v", alias, err)
		}
	}
}

// BusyboxLinks fans out one symlink per applet name inside busyboxDir, all
// pointing at the busybox binary there. A failed symlink never aborts the
// batch; most failures are links left behind by a previous run.
func BusyboxLinks(busyboxDir string) {
	target := filepath.Join(busyboxDir, filenames.Busybox)
	for _, applet := range busyboxApplets {
		if err := os.Symlink(target, filepath.Join(busyboxDir, applet)); err != nil {
			logrus.Debugf("Skipping applet symlink %q: %v", applet, err)
		}
	}
}
