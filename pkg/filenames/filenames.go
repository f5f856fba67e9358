// Package filenames defines the names of the files that appear under the
// extraction cache or inside an instance dir.
package filenames

// Payload file names in their fixed on-disk order. Boot is not part of the
// length-prefixed chain: it is a full program image that lands inside the
// instance dir rather than under bin/.
const (
	Boot          = "fim_boot"
	Bash          = "bash"
	Busybox       = "busybox"
	Bwrap         = "bwrap"
	Ciopfs        = "ciopfs"
	DwarfsAIO     = "dwarfs_aio"
	Portal        = "fim_portal"
	PortalDaemon  = "fim_portal_daemon"
	BwrapApparmor = "fim_bwrap_apparmor"
	Janitor       = "janitor"
	Lsof          = "lsof"
	Overlayfs     = "overlayfs"
	Unionfs       = "unionfs"
	Proot         = "proot"
)

// Payloads lists the length-prefixed payloads in the order they appear in
// the self-image, immediately after the embedded boot image.
var Payloads = []string{
	Bash,
	Busybox,
	Bwrap,
	Ciopfs,
	DwarfsAIO,
	Portal,
	PortalDaemon,
	BwrapApparmor,
	Janitor,
	Lsof,
	Overlayfs,
	Unionfs,
	Proot,
}

// Symlink aliases created under bin/, both resolving to the dwarfs
// all-in-one binary.
const (
	Dwarfs   = "dwarfs"
	Mkdwarfs = "mkdwarfs"
)

// Filenames that may appear under an instance directory

const (
	MountDir    = "mount"
	MountExtDir = "mount/ext"
	PortalRef   = "fim_boot" // reference file the portal daemon keys on
)

// BootConfig is the per-image boot configuration, under the app dir.
const BootConfig = "boot.yaml"
