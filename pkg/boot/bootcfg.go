// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/google/renameio/v2"

	"github.com/flatimage/flatimage/pkg/filenames"
)

// BootConfig is the per-image boot configuration stored under the app dir.
type BootConfig struct {
	// Cmd is the default command the image runs when invoked without a
	// subcommand, as a shell-style string.
	Cmd string `yaml:"cmd,omitempty"`
}

func bootConfigPath(appDir string) string {
	return filepath.Join(appDir, filenames.BootConfig)
}

// LoadBootConfig reads the boot configuration; a missing file is an empty
// configuration.
func LoadBootConfig(appDir string) (*BootConfig, error) {
	data, err := os.ReadFile(bootConfigPath(appDir))
	if errors.Is(err, os.ErrNotExist) {
		return &BootConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg BootConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", bootConfigPath(appDir), err)
	}
	return &cfg, nil
}

// Save writes the boot configuration atomically, so a concurrent invocation
// never reads a half-written file.
func (c *BootConfig) Save(appDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return renameio.WriteFile(bootConfigPath(appDir), data, 0o644)
}
