package dup

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sys/unix"
)

// CompareStats counts the work done by a Comparator
type CompareStats struct {
	Comparisons    uint64 // Equal calls
	SizeMismatches uint64 // comparisons settled by file size alone
	SameFile       uint64 // comparisons of a path with a symlink alias of itself
	HardLinks      uint64 // comparisons of two hard links, equal without reading
	ChunksRead     uint64 // chunk pairs read
	BytesRead      uint64 // bytes read from both files
}

// Comparator checks files for byte-exact equality.
// It reuses its buffers and is not safe for concurrent use.
type Comparator struct {
	fsys      billy.Filesystem
	chunkSize int
	buf1      []byte
	buf2      []byte
	stats     CompareStats
}

// NewComparator creates a comparator reading chunkSize bytes at a time.
// A non-positive chunkSize selects DefaultChunkSize.
func NewComparator(fsys billy.Filesystem, chunkSize int) *Comparator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Comparator{
		fsys:      fsys,
		chunkSize: chunkSize,
	}
}

// ChunkSize returns the read size in bytes
func (c *Comparator) ChunkSize() int {
	return c.chunkSize
}

// Stats returns a snapshot of the comparison counters
func (c *Comparator) Stats() CompareStats {
	return c.stats
}

// Equal reports whether path1 and path2 have identical contents.
// Files of different sizes are rejected without being opened. Hard links to one inode are
// equal without being read. A path reached again through a symlink is never equal to
// itself, so removing a duplicate cannot remove the original's only data.
func (c *Comparator) Equal(path1, path2 string) (bool, error) {
	c.stats.Comparisons++

	info1, err := c.fsys.Stat(path1)
	if err != nil {
		return false, newOpError(KindCompare, "stat", path1, err)
	}
	info2, err := c.fsys.Stat(path2)
	if err != nil {
		return false, newOpError(KindCompare, "stat", path2, err)
	}

	if info1.Size() != info2.Size() {
		c.stats.SizeMismatches++
		return false, nil
	}

	if os.SameFile(info1, info2) {
		if c.isAlias(path1, path2) {
			c.stats.SameFile++
			VerboseLog(VerboseDetail, "%s and %s are the same file", path1, path2)
			return false, nil
		}
		c.stats.HardLinks++
		VerboseLog(VerboseDetail, "%s and %s are hard links", path1, path2)
		return true, nil
	}

	f1, err := c.fsys.Open(path1)
	if err != nil {
		return false, newOpError(KindCompare, "open file", path1, err)
	}
	defer f1.Close()

	f2, err := c.fsys.Open(path2)
	if err != nil {
		return false, newOpError(KindCompare, "open file", path2, err)
	}
	defer f2.Close()

	adviseSequential(f1)
	adviseSequential(f2)

	return c.equalStreams(f1, path1, f2, path2)
}

// isAlias reports whether two paths for one inode name the same directory entry,
// either directly through a symlink or via a symlinked parent directory.
// Anything that cannot be resolved counts as an alias.
func (c *Comparator) isAlias(path1, path2 string) bool {
	for _, path := range []string{path1, path2} {
		info, err := c.fsys.Lstat(path)
		if err != nil || info.Mode()&os.ModeSymlink != 0 {
			return true
		}
	}

	rp, ok := c.fsys.(realPather)
	if !ok {
		return false
	}
	real1, err := rp.RealPath(path1)
	if err != nil {
		return true
	}
	real2, err := rp.RealPath(path2)
	if err != nil {
		return true
	}
	return real1 == real2
}

func (c *Comparator) equalStreams(r1 io.Reader, name1 string, r2 io.Reader, name2 string) (bool, error) {
	if len(c.buf1) != c.chunkSize {
		c.buf1 = make([]byte, c.chunkSize)
		c.buf2 = make([]byte, c.chunkSize)
	}

	for {
		n1, end1, err := readChunk(r1, c.buf1)
		if err != nil {
			return false, newOpError(KindCompare, "read file", name1, err)
		}
		n2, end2, err := readChunk(r2, c.buf2)
		if err != nil {
			return false, newOpError(KindCompare, "read file", name2, err)
		}

		c.stats.ChunksRead++
		c.stats.BytesRead += uint64(n1 + n2)

		if n1 != n2 {
			return false, nil
		}
		if !bytes.Equal(c.buf1[:n1], c.buf2[:n2]) {
			if IsDebugEnabled(DebugCompare) {
				debugLog(DebugCompare, "%s and %s differ in chunk %d", name1, name2, c.stats.ChunksRead)
			}
			return false, nil
		}
		if end1 || end2 {
			return end1 && end2, nil
		}
	}
}

// readChunk fills buf as far as the stream allows. end is true once the stream is exhausted.
func readChunk(r io.Reader, buf []byte) (n int, end bool, err error) {
	n, err = io.ReadFull(r, buf)
	switch {
	case err == nil:
		return n, false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n, true, nil
	default:
		return n, false, err
	}
}

// EqualReaders compares two streams chunk by chunk, stopping at the first difference
func EqualReaders(r1, r2 io.Reader, chunkSize int) (bool, error) {
	c := NewComparator(nil, chunkSize)
	return c.equalStreams(r1, "", r2, "")
}

// adviseSequential hints the kernel that the file will be read front to back
func adviseSequential(f billy.File) {
	osFile, ok := f.(fdFile)
	if !ok {
		return
	}
	if err := unix.Fadvise(int(osFile.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		debugLog(DebugCompare, "fadvise %s: %v", f.Name(), err)
	}
}
