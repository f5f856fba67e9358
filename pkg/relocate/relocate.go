// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

// Package relocate implements the stage hand-off: the packed self-image
// extracts its payloads into the shared cache and replaces itself with the
// extracted bootloader copy, which mounts the filesystem segment and boots.
package relocate

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"github.com/flatimage/flatimage/pkg/dirnames"
	"github.com/flatimage/flatimage/pkg/elfimage"
	"github.com/flatimage/flatimage/pkg/extract"
	"github.com/flatimage/flatimage/pkg/filenames"
	"github.com/flatimage/flatimage/pkg/fimenv"
	"github.com/flatimage/flatimage/pkg/store"
	"github.com/flatimage/flatimage/pkg/version"
)

// Needed reports whether path is the packed self-image. The packed image
// carries appended payloads, so its size exceeds what its own ELF headers
// account for; the relocated copy ends exactly at its program-image end.
func Needed(path string) (bool, error) {
	end, err := elfimage.ProgramImageEnd(path, 0)
	if err != nil {
		return false, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return st.Size() != end, nil
}

// Run performs the relocation sequence: prepare the cache tree, reserve an
// instance dir, publish the environment, extract every payload, fan out the
// busybox applets, and exec the extracted bootloader with the original
// argument vector and environment. On success it does not return.
func Run(selfPath string, argv []string) error {
	start := time.Now()

	if err := store.PrepareAppDirs(); err != nil {
		return err
	}
	inst, err := store.CreateInstance()
	if err != nil {
		return err
	}

	binDir := dirnames.AppBinDir()
	busyboxDir := dirnames.BusyboxDir()
	for name, value := range map[string]string{
		fimenv.DirGlobal:   dirnames.GlobalDir(),
		fimenv.DirApp:      dirnames.AppDir(),
		fimenv.DirAppBin:   binDir,
		fimenv.DirBusybox:  busyboxDir,
		fimenv.FileBinary:  selfPath,
		fimenv.DirInstance: inst.Dir,
		fimenv.DirMount:    inst.MountDir,
		fimenv.DirMountExt: inst.MountExtDir,
		fimenv.Version:     version.Version,
	} {
		if err := fimenv.Set(name, value); err != nil {
			return err
		}
	}
	// Known only after the walk; published here so the variable set is
	// complete from the start.
	if err := fimenv.SetInt(fimenv.Offset, 0); err != nil {
		return err
	}

	src, err := os.Open(selfPath)
	if err != nil {
		return fmt.Errorf("failed to open self-image %q: %w", selfPath, err)
	}
	defer src.Close()

	offset, extracted, err := extractAll(selfPath, src, inst)
	if err != nil {
		return err
	}
	extract.Aliases(binDir)
	extract.BusyboxLinks(busyboxDir)

	// Everything after the last payload is the filesystem segment.
	if err := fimenv.SetInt(fimenv.Offset, offset); err != nil {
		return err
	}
	logrus.Debugf("FIM_OFFSET: %d", offset)
	logrus.Debugf("Walked %s of payloads in %s",
		units.HumanSize(float64(extracted)), time.Since(start).Round(time.Millisecond))

	// Escape hatch to mount the filesystem segment manually.
	if _, ok := os.LookupEnv(fimenv.MainOffset); ok {
		fmt.Println(offset)
		os.Exit(0)
	}

	// The exec must not inherit the walk handle.
	if err := src.Close(); err != nil {
		return err
	}
	if err := syscall.Exec(inst.BootPath, argv, os.Environ()); err != nil {
		return fmt.Errorf("failed to exec bootloader %q: %w", inst.BootPath, err)
	}
	return nil
}

// extractAll walks every payload of the self-image and materializes it,
// returning the filesystem segment offset and how many payload bytes the
// image carries.
func extractAll(selfPath string, src *os.File, inst *store.Instance) (int64, int64, error) {
	// Payload 0 is a full program image, not length-prefixed: walk its ELF
	// headers to find where it ends.
	leadEnd, err := elfimage.ProgramImageEnd(selfPath, 0)
	if err != nil {
		return 0, 0, err
	}
	bootEnd, err := elfimage.ProgramImageEnd(selfPath, leadEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to locate embedded bootloader: %w", err)
	}
	if err := extract.Span(src, elfimage.Span{Begin: leadEnd, End: bootEnd}, inst.BootPath); err != nil {
		return 0, 0, err
	}

	binDir := dirnames.AppBinDir()
	busyboxDir := dirnames.BusyboxDir()
	offset := bootEnd
	extracted := bootEnd - leadEnd
	for _, name := range filenames.Payloads {
		span, err := elfimage.NextPayload(src, offset)
		if err != nil {
			return 0, 0, err
		}
		dest := filepath.Join(binDir, name)
		if name == filenames.Busybox {
			dest = filepath.Join(busyboxDir, name)
		}
		if err := extract.Span(src, span.Body(), dest); err != nil {
			return 0, 0, err
		}
		offset = span.End
		extracted += span.Body().Len()
	}
	return offset, extracted, nil
}
