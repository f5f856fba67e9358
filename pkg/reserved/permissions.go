// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package reserved

import (
	"encoding/binary"
	"strings"
)

// PermissionBits is the in-memory form of the capability record: one bit
// per host resource the sandbox may be granted.
type PermissionBits uint16

const (
	PermHome PermissionBits = 1 << iota
	PermMedia
	PermAudio
	PermWayland
	PermXorg
	PermDBusUser
	PermDBusSystem
	PermUdev
	PermUSB
	PermInput
	PermGPU
	PermNetwork
)

// permissionNames maps names to bits in the canonical listing order.
var permissionNames = []struct {
	name string
	bit  PermissionBits
}{
	{"home", PermHome},
	{"media", PermMedia},
	{"audio", PermAudio},
	{"wayland", PermWayland},
	{"xorg", PermXorg},
	{"dbus_user", PermDBusUser},
	{"dbus_system", PermDBusSystem},
	{"udev", PermUdev},
	{"usb", PermUSB},
	{"input", PermInput},
	{"gpu", PermGPU},
	{"network", PermNetwork},
}

// permissionRecordSize is the fixed on-disk record: the twelve flags packed
// little-endian into the first two bytes, the rest reserved as zero.
const permissionRecordSize = 16

// List returns the names of the set bits in canonical order.
func (b PermissionBits) List() []string {
	var names []string
	for _, p := range permissionNames {
		if b&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	return names
}

// with returns b with the named flags set or cleared. Matching is
// ASCII-case-insensitive; unknown names are ignored.
func (b PermissionBits) with(names []string, value bool) PermissionBits {
	for _, name := range names {
		name = strings.ToLower(name)
		for _, p := range permissionNames {
			if p.name != name {
				continue
			}
			if value {
				b |= p.bit
			} else {
				b &^= p.bit
			}
		}
	}
	return b
}

// Permissions is the capability record of one self-image.
type Permissions struct {
	Region
}

// Read returns the stored permission bits.
func (p Permissions) Read() (PermissionBits, error) {
	var rec [permissionRecordSize]byte
	if err := p.ReadRecord(rec[:]); err != nil {
		return 0, err
	}
	return PermissionBits(binary.LittleEndian.Uint16(rec[:2])), nil
}

// Write stores bits, replacing the whole record.
func (p Permissions) Write(bits PermissionBits) error {
	var rec [permissionRecordSize]byte
	binary.LittleEndian.PutUint16(rec[:2], uint16(bits))
	return p.WriteRecord(rec[:])
}

// Set grants exactly the named permissions, clearing everything else.
func (p Permissions) Set(names []string) error {
	return p.Write(PermissionBits(0).with(names, true))
}

// Add grants the named permissions on top of the stored ones.
func (p Permissions) Add(names []string) error {
	bits, err := p.Read()
	if err != nil {
		return err
	}
	return p.Write(bits.with(names, true))
}

// Del revokes the named permissions, keeping the rest.
func (p Permissions) Del(names []string) error {
	bits, err := p.Read()
	if err != nil {
		return err
	}
	return p.Write(bits.with(names, false))
}

// List returns the names of the granted permissions in canonical order.
func (p Permissions) List() ([]string, error) {
	bits, err := p.Read()
	if err != nil {
		return nil, err
	}
	return bits.List(), nil
}
