package relocate

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"simtagger/internal/fileutil"
)

// Probe abstracts the filesystem queries behind relocation decisions.
type Probe interface {
	// SameVolume reports whether both paths live on one storage volume.
	SameVolume(a, b string) bool
	// FreeBytes returns the free space on the volume holding path.
	FreeBytes(path string) (uint64, error)
	// DirSize returns the total byte size of the directory tree at path.
	DirSize(path string) int64
}

// unixProbe implements Probe with stat/statfs syscalls.
type unixProbe struct{}

func (unixProbe) SameVolume(a, b string) bool {
	var statA, statB unix.Stat_t
	if err := unix.Stat(nearestExisting(a), &statA); err != nil {
		// Assume same volume when uncertain; a cross-volume rename still
		// falls back to copy+delete on EXDEV.
		return true
	}
	if err := unix.Stat(nearestExisting(b), &statB); err != nil {
		return true
	}
	return statA.Dev == statB.Dev
}

func (unixProbe) FreeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(nearestExisting(path), &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func (unixProbe) DirSize(path string) int64 {
	return fileutil.DirSize(path)
}

// nearestExisting walks up from path to the closest ancestor that exists, so
// volume queries work before the destination directory is created.
func nearestExisting(path string) string {
	current := path
	for {
		if _, err := os.Stat(current); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return current
		}
		current = parent
	}
}
