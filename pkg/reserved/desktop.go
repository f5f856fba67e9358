// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package reserved

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoDesktopEntry is returned when the desktop record was never written.
var ErrNoDesktopEntry = errors.New("no desktop entry stored in image")

// DesktopEntry is the desktop-integration record. The on-disk form is the
// JSON encoding, zero-padded to the record size.
type DesktopEntry struct {
	Name       string   `json:"name"`
	Icon       string   `json:"icon,omitempty"`
	Categories []string `json:"categories,omitempty"`
	// Enable lists the integrations the user opted into: "entry",
	// "mimetype", "icon".
	Enable []string `json:"enable,omitempty"`
}

// Desktop is the desktop entry record of one self-image.
type Desktop struct {
	Region
}

// Read decodes the stored desktop entry. ErrNoDesktopEntry when the record
// is still zeroed.
func (d Desktop) Read() (*DesktopEntry, error) {
	rec := make([]byte, d.Size)
	if err := d.ReadRecord(rec); err != nil {
		return nil, err
	}
	if i := bytes.IndexByte(rec, 0); i >= 0 {
		rec = rec[:i]
	}
	if len(rec) == 0 {
		return nil, ErrNoDesktopEntry
	}
	var entry DesktopEntry
	if err := json.Unmarshal(rec, &entry); err != nil {
		return nil, fmt.Errorf("malformed desktop entry record: %w", err)
	}
	return &entry, nil
}

// Write encodes and stores entry, zero-padding the rest of the record.
func (d Desktop) Write(entry *DesktopEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if int64(len(data)) >= d.Size {
		return fmt.Errorf("desktop entry of %d bytes does not fit record of size %d", len(data), d.Size)
	}
	rec := make([]byte, d.Size)
	copy(rec, data)
	return d.WriteRecord(rec)
}

// Erase zeroes the record; subsequent reads report ErrNoDesktopEntry.
func (d Desktop) Erase() error {
	return d.WriteRecord(make([]byte, d.Size))
}
