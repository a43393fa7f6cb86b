package ipc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Shared objects live in tmpfs, the same place shm_open puts them.
const shmDir = "/dev/shm"

var (
	// ErrExists is returned by Create when the channel is already there.
	ErrExists = errors.New("ipc: channel already exists")
	// ErrNotFound is returned by Open when the channel is missing.
	ErrNotFound = errors.New("ipc: channel not found")
	// ErrSizeMismatch is returned when a shared object has the wrong size.
	ErrSizeMismatch = errors.New("ipc: shared object has unexpected size")
	// ErrTooLarge is returned by Publish for oversized candidates.
	ErrTooLarge = errors.New("ipc: candidate exceeds slot capacity")
	// ErrBadName is returned for channel names tmpfs cannot hold.
	ErrBadName = errors.New("ipc: invalid channel name")
)

// objectPath maps a channel object name to its tmpfs path. Names follow
// shm_open conventions: an optional leading slash, no other separators.
func objectPath(name string) (string, error) {
	trimmed := strings.TrimPrefix(name, "/")
	if trimmed == "" || strings.ContainsRune(trimmed, '/') {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(shmDir, trimmed), nil
}

// createMapped creates a fresh shared object of the given size and maps
// it read-write. The object starts zeroed.
func createMapped(path string, size int) ([]byte, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o600)
	if err != nil {
		if err == unix.EEXIST {
			return nil, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return nil, fmt.Errorf("ipc: create %s: %w", path, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, fmt.Errorf("ipc: size %s: %w", path, err)
	}
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	unix.Close(fd)
	if err != nil {
		unix.Unlink(path)
		return nil, fmt.Errorf("ipc: map %s: %w", path, err)
	}
	return mem, nil
}

// openMapped maps an existing shared object, verifying its size.
func openMapped(path string, size int) ([]byte, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		if err == unix.ENOENT {
			return nil, fmt.Errorf("%w: %s (is the supervisor running?)", ErrNotFound, path)
		}
		return nil, fmt.Errorf("ipc: open %s: %w", path, err)
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ipc: stat %s: %w", path, err)
	}
	if st.Size != int64(size) {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", ErrSizeMismatch, path, st.Size, size)
	}
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	unix.Close(fd)
	if err != nil {
		return nil, fmt.Errorf("ipc: map %s: %w", path, err)
	}
	return mem, nil
}

func unmap(mem []byte) error {
	if mem == nil {
		return nil
	}
	return unix.Munmap(mem)
}

// unlink removes a shared object; a missing object is not an error.
func unlink(path string) error {
	if err := unix.Unlink(path); err != nil && err != unix.ENOENT {
		return fmt.Errorf("ipc: unlink %s: %w", path, err)
	}
	return nil
}
