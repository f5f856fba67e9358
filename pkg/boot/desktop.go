// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/sirupsen/logrus"

	"github.com/flatimage/flatimage/pkg/reserved"
)

// IntegrateDesktop refreshes the user's desktop database from the entry
// stored in the image. Images without a stored entry, or with integration
// not enabled, are a no-op. Up logs any error so desktop integration never
// blocks the boot; the fim-desktop enable command returns it to the user.
func IntegrateDesktop(cfg *Config) error {
	rec, err := cfg.Desktop()
	if err != nil {
		return err
	}
	entry, err := rec.Read()
	if errors.Is(err, reserved.ErrNoDesktopEntry) {
		logrus.Debug("No desktop entry stored in image")
		return nil
	}
	if err != nil {
		return err
	}
	if !slices.Contains(entry.Enable, "entry") {
		logrus.Debug("Desktop entry integration not enabled")
		return nil
	}
	return writeDesktopFile(cfg, entry)
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}

func writeDesktopFile(cfg *Config, entry *reserved.DesktopEntry) error {
	data := dataHome()
	if data == "" {
		return fmt.Errorf("cannot resolve XDG data home")
	}
	appsDir := filepath.Join(data, "applications")
	if err := os.MkdirAll(appsDir, 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	fmt.Fprintf(&b, "Name=%s\n", entry.Name)
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Exec=%s %%F\n", cfg.FileBinary)
	if entry.Icon != "" && slices.Contains(entry.Enable, "icon") {
		fmt.Fprintf(&b, "Icon=%s\n", entry.Icon)
	}
	if len(entry.Categories) > 0 {
		fmt.Fprintf(&b, "Categories=%s;\n", strings.Join(entry.Categories, ";"))
	}

	name := strings.ToLower(strings.ReplaceAll(entry.Name, " ", "-"))
	dest := filepath.Join(appsDir, fmt.Sprintf("flatimage-%s.desktop", name))
	if err := renameio.WriteFile(dest, []byte(b.String()), 0o644); err != nil {
		return err
	}
	logrus.Debugf("Desktop entry refreshed at %q", dest)
	return nil
}
