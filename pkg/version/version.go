// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

//nolint:revive // var-naming: avoid package names that conflict with Go standard library package names
package version

// Version, Commit and Timestamp are filled on compilation time.
// Commit and Timestamp key the shared extraction cache: two binaries
// built from the same commit and timestamp share it.
var (
	Version   = "<unknown>"
	Commit    = "unknown"
	Timestamp = "0"
)
