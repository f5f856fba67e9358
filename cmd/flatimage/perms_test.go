// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestSplitPerms(t *testing.T) {
	assert.DeepEqual(t, splitPerms([]string{"audio,gpu", "home"}), []string{"audio", "gpu", "home"})
	assert.DeepEqual(t, splitPerms([]string{"audio,,gpu"}), []string{"audio", "gpu"})
	var empty []string
	assert.DeepEqual(t, splitPerms(nil), empty)
}
