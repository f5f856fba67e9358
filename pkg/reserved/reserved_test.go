// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package reserved

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

// imageFile writes a fake self-image with a recognizable byte pattern so
// tests can detect stray writes outside the reserved region.
func imageFile(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 253)
	}
	path := filepath.Join(t.TempDir(), "image")
	assert.NilError(t, os.WriteFile(path, data, 0o755))
	return path
}

// complementHash hashes everything outside [offset, offset+size).
func complementHash(t *testing.T, path string, offset, size int64) [sha256.Size]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	h := sha256.New()
	h.Write(data[:offset])
	h.Write(data[offset+size:])
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func testRegion(t *testing.T) Region {
	return Region{Path: imageFile(t, 8192), Offset: 1024, Size: 2048}
}

func TestPermissionsRoundTrip(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}

	want := PermHome | PermAudio | PermNetwork
	assert.NilError(t, perms.Write(want))
	got, err := perms.Read()
	assert.NilError(t, err)
	assert.Equal(t, got, want)
}

func TestPermissionsWriteLeavesComplementIntact(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}
	before := complementHash(t, perms.Path, perms.Offset, permissionRecordSize)

	assert.NilError(t, perms.Write(PermHome|PermGPU))

	after := complementHash(t, perms.Path, perms.Offset, permissionRecordSize)
	assert.Equal(t, after, before)

	st, err := os.Stat(perms.Path)
	assert.NilError(t, err)
	assert.Equal(t, st.Size(), int64(8192))
}

func TestPermissionsSetReplaces(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}

	assert.NilError(t, perms.Set([]string{"home", "network"}))
	names, err := perms.List()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"home", "network"})

	assert.NilError(t, perms.Set([]string{"gpu"}))
	names, err = perms.List()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"gpu"})
}

func TestPermissionsAddDel(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}

	assert.NilError(t, perms.Set([]string{"home", "network"}))
	assert.NilError(t, perms.Add([]string{"audio"}))
	names, err := perms.List()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"home", "audio", "network"})

	assert.NilError(t, perms.Del([]string{"home"}))
	names, err = perms.List()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"audio", "network"})
}

func TestPermissionNamesCaseInsensitive(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}

	assert.NilError(t, perms.Set([]string{"Home", "MEDIA"}))
	upper, err := perms.Read()
	assert.NilError(t, err)

	assert.NilError(t, perms.Set([]string{"home", "media"}))
	lower, err := perms.Read()
	assert.NilError(t, err)
	assert.Equal(t, upper, lower)
}

func TestPermissionNamesUnknownIgnored(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}

	assert.NilError(t, perms.Set([]string{"home", "no_such_permission"}))
	names, err := perms.List()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"home"})
}

func TestPermissionsListCanonicalOrder(t *testing.T) {
	perms := Permissions{Region: testRegion(t)}

	assert.NilError(t, perms.Set([]string{"network", "usb", "home", "xorg"}))
	names, err := perms.List()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"home", "xorg", "usb", "network"})
}

func TestRegionTooSmall(t *testing.T) {
	perms := Permissions{Region: Region{Path: imageFile(t, 8192), Offset: 1024, Size: 8}}

	_, err := perms.Read()
	assert.ErrorContains(t, err, "cannot hold")
	assert.ErrorContains(t, perms.Write(PermHome), "does not fit")
}

func TestRegionLargerThanRecord(t *testing.T) {
	// Trailing region bytes are ignored on read and untouched on write.
	perms := Permissions{Region: testRegion(t)}
	assert.NilError(t, perms.Write(PermMedia))

	got, err := perms.Read()
	assert.NilError(t, err)
	assert.Equal(t, got, PermMedia)

	data, err := os.ReadFile(perms.Path)
	assert.NilError(t, err)
	trailing := data[perms.Offset+permissionRecordSize : perms.Offset+perms.Size]
	for i, b := range trailing {
		if b != byte((int(perms.Offset)+permissionRecordSize+i)%253) {
			t.Fatalf("trailing region byte %d was clobbered", i)
		}
	}
}

func TestSliceBounds(t *testing.T) {
	region := testRegion(t)

	sub, err := region.Slice(16, 1)
	assert.NilError(t, err)
	assert.Equal(t, sub.Offset, region.Offset+16)
	assert.Equal(t, sub.Size, int64(1))

	_, err = region.Slice(2048, 1)
	assert.Check(t, cmp.ErrorContains(err, "outside reserved region"))
	_, err = region.Slice(-1, 8)
	assert.Check(t, cmp.ErrorContains(err, "outside reserved region"))
}

func TestNotifyRoundTrip(t *testing.T) {
	region := testRegion(t)
	sub, err := region.Slice(16, 1)
	assert.NilError(t, err)
	notify := Notify{Region: sub}

	assert.NilError(t, notify.Write(true))
	enabled, err := notify.Read()
	assert.NilError(t, err)
	assert.Assert(t, enabled)

	assert.NilError(t, notify.Write(false))
	enabled, err = notify.Read()
	assert.NilError(t, err)
	assert.Assert(t, !enabled)
}

func TestDesktopRoundTrip(t *testing.T) {
	region := testRegion(t)
	sub, err := region.Slice(17, 1024)
	assert.NilError(t, err)
	desktop := Desktop{Region: sub}

	want := &DesktopEntry{
		Name:       "Sample App",
		Icon:       "sample",
		Categories: []string{"Game"},
		Enable:     []string{"entry", "icon"},
	}
	assert.NilError(t, desktop.Write(want))
	got, err := desktop.Read()
	assert.NilError(t, err)
	assert.DeepEqual(t, got, want)
}

func TestNotifyErase(t *testing.T) {
	region := testRegion(t)
	sub, err := region.Slice(16, 1)
	assert.NilError(t, err)
	notify := Notify{Region: sub}

	assert.NilError(t, notify.Write(true))
	assert.NilError(t, notify.Erase())
	enabled, err := notify.Read()
	assert.NilError(t, err)
	assert.Assert(t, !enabled)
}

func TestDesktopErase(t *testing.T) {
	region := testRegion(t)
	sub, err := region.Slice(17, 1024)
	assert.NilError(t, err)
	desktop := Desktop{Region: sub}

	assert.NilError(t, desktop.Write(&DesktopEntry{Name: "Sample App"}))
	assert.NilError(t, desktop.Erase())
	_, err = desktop.Read()
	assert.ErrorIs(t, err, ErrNoDesktopEntry)
}

func TestDesktopEmptyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image")
	assert.NilError(t, os.WriteFile(path, make([]byte, 8192), 0o755))
	desktop := Desktop{Region: Region{Path: path, Offset: 1024, Size: 1024}}

	_, err := desktop.Read()
	assert.ErrorIs(t, err, ErrNoDesktopEntry)
}

func TestDesktopEntryTooLarge(t *testing.T) {
	region := testRegion(t)
	sub, err := region.Slice(17, 16)
	assert.NilError(t, err)
	desktop := Desktop{Region: sub}

	err = desktop.Write(&DesktopEntry{Name: "far too long for a sixteen byte record"})
	assert.ErrorContains(t, err, "does not fit")
}

func TestBakedRegionUnset(t *testing.T) {
	_, err := BakedRegion(imageFile(t, 64))
	assert.ErrorContains(t, err, "no reserved region")
}
