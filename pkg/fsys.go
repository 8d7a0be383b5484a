package dup

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// nativeOS is a billy.Filesystem that resolves paths exactly like the os package:
// relative paths are relative to the working directory and ".." is allowed.
type nativeOS struct {
	osfs.ChrootOS
}

// Chroot returns a filesystem rooted at path
func (n *nativeOS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem
func (n *nativeOS) Root() string {
	return "/"
}

// RealPath returns the absolute path with every symlink resolved
func (n *nativeOS) RealPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// NewOSFilesystem returns the filesystem used for real runs
func NewOSFilesystem() billy.Filesystem {
	return &nativeOS{}
}

// fdFile is implemented by files backed by an OS descriptor
type fdFile interface {
	Fd() uintptr
}

// realPather is implemented by filesystems that can resolve symlinks in a path
type realPather interface {
	RealPath(path string) (string, error)
}
