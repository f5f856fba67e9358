// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// waitBusyInterval is how often the not-busy probe retries.
var waitBusyInterval = 100 * time.Millisecond

// WaitNotBusy blocks until no process executes the file at path. The kernel
// refuses write access to a running text file with ETXTBSY; once the probe
// open succeeds the image is quiescent and safe to rewrite.
func WaitNotBusy(path string) error {
	logged := false
	for {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err == nil {
			return f.Close()
		}
		if !errors.Is(err, unix.ETXTBSY) {
			return err
		}
		if !logged {
			logrus.Debugf("Waiting for %q to become not busy", path)
			logged = true
		}
		time.Sleep(waitBusyInterval)
	}
}
