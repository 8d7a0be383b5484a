package dup

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"syscall"

	"github.com/go-git/go-billy/v5"
)

// FileList is the sorted list of regular files found under one input directory.
// It is immutable once returned by ScanDirectory.
type FileList struct {
	dir   string
	paths []string
}

// NewFileList builds a FileList from already collected paths, sorting and de-duplicating a copy
func NewFileList(dir string, paths []string) *FileList {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	slices.SortFunc(sorted, comparePaths)
	return &FileList{dir: dir, paths: slices.Compact(sorted)}
}

// comparePaths orders paths component by component. The separator sorts before every
// other byte, so "a/f" comes before "a-b/f" and a directory's files come before those of
// any sibling whose name extends it.
func comparePaths(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ca, cb := a[i], b[i]
		switch {
		case ca == cb:
			continue
		case ca == filepath.Separator:
			return -1
		case cb == filepath.Separator:
			return 1
		case ca < cb:
			return -1
		default:
			return 1
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Dir returns the directory the list was scanned from
func (fl *FileList) Dir() string { return fl.dir }

// Len returns the number of files
func (fl *FileList) Len() int { return len(fl.paths) }

// Path returns the i'th path in sorted order
func (fl *FileList) Path(i int) string { return fl.paths[i] }

// Paths returns a copy of the sorted paths
func (fl *FileList) Paths() []string {
	out := make([]string, len(fl.paths))
	copy(out, fl.paths)
	return out
}

// scanner carries per-scan state
type scanner struct {
	fsys      billy.Filesystem
	root      string
	recursive bool
	ignore    *IgnoreManager
	ancestors []os.FileInfo
}

// ScanDirectory lists the regular files in dir, descending into subdirectories when
// recursive is set. Symlinks count as whatever they resolve to; broken links are skipped.
// The result is sorted by path, component by component.
func ScanDirectory(fsys billy.Filesystem, dir string, recursive bool, ignore *IgnoreManager) (*FileList, error) {
	defer VerboseEnter()()

	dir = filepath.Clean(dir)
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, newOpError(KindScan, "read directory", dir, err)
	}
	if !info.IsDir() {
		return nil, newOpError(KindScan, "read directory", dir, syscall.ENOTDIR)
	}

	s := &scanner{
		fsys:      fsys,
		root:      dir,
		recursive: recursive,
		ignore:    ignore,
		ancestors: []os.FileInfo{info},
	}

	var files []string
	if err := s.scanDir(dir, &files); err != nil {
		return nil, err
	}

	slices.SortFunc(files, comparePaths)
	VerboseLog(VerboseDetail, "scanned %s: %d files", dir, len(files))
	return &FileList{dir: dir, paths: files}, nil
}

// scanDir appends files in dir to out, recursing depth-first before continuing with siblings
func (s *scanner) scanDir(dir string, out *[]string) error {
	entries, err := s.fsys.ReadDir(dir)
	if err != nil {
		return newOpError(KindScan, "read directory", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		path := s.fsys.Join(dir, entry.Name())

		if s.ignore.HasPatterns() {
			if rel, err := filepath.Rel(s.root, path); err == nil && s.ignore.ShouldIgnore(rel) {
				debugLog(DebugScan, "ignored %s", path)
				continue
			}
		}

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := s.fsys.Stat(path)
			if err != nil {
				debugLog(DebugScan, "skipping broken symlink %s: %v", path, err)
				continue
			}
			info = target
		}

		switch {
		case info.IsDir():
			if !s.recursive {
				continue
			}
			if s.isAncestor(info) {
				VerboseLog(VerboseDetail, "not following %s: directory cycle", path)
				continue
			}
			debugLog(DebugScan, "descending into %s", path)
			s.ancestors = append(s.ancestors, info)
			err := s.scanDir(path, out)
			s.ancestors = s.ancestors[:len(s.ancestors)-1]
			if err != nil {
				return err
			}
		case info.Mode().IsRegular():
			debugLog(DebugScan, "found file %s", path)
			*out = append(*out, path)
		default:
			debugLog(DebugScan, "skipping %s: mode %s", path, info.Mode())
		}
	}

	return nil
}

// isAncestor reports whether info is a directory already on the current descent path
func (s *scanner) isAncestor(info os.FileInfo) bool {
	for _, a := range s.ancestors {
		if os.SameFile(a, info) {
			return true
		}
	}
	return false
}
