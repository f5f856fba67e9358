// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package debugutil

// Debug is set when FIM_DEBUG=1.
var Debug bool
