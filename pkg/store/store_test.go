// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/flatimage/flatimage/pkg/dirnames"
)

func TestPrepareAppDirsIdempotent(t *testing.T) {
	t.Setenv("FIM_DIR_GLOBAL", t.TempDir())

	assert.NilError(t, PrepareAppDirs())
	assert.NilError(t, PrepareAppDirs())

	for _, dir := range []string{
		dirnames.AppDir(),
		dirnames.AppBinDir(),
		dirnames.BusyboxDir(),
		dirnames.InstancesDir(),
	} {
		st, err := os.Stat(dir)
		assert.NilError(t, err)
		assert.Assert(t, st.IsDir())
	}
}

func TestCreateInstanceUnique(t *testing.T) {
	t.Setenv("FIM_DIR_GLOBAL", t.TempDir())
	assert.NilError(t, PrepareAppDirs())

	first, err := CreateInstance()
	assert.NilError(t, err)
	second, err := CreateInstance()
	assert.NilError(t, err)

	assert.Assert(t, first.Dir != second.Dir)
	assert.Equal(t, filepath.Dir(first.Dir), dirnames.InstancesDir())

	for _, inst := range []*Instance{first, second} {
		for _, dir := range []string{inst.MountDir, inst.MountExtDir} {
			st, err := os.Stat(dir)
			assert.NilError(t, err)
			assert.Assert(t, st.IsDir())
		}
		assert.Equal(t, inst.BootPath, filepath.Join(inst.Dir, "fim_boot"))
	}
}

func TestCreateInstanceWithoutTree(t *testing.T) {
	t.Setenv("FIM_DIR_GLOBAL", filepath.Join(t.TempDir(), "missing"))

	_, err := CreateInstance()
	assert.ErrorContains(t, err, "failed to create instance directory")
}
