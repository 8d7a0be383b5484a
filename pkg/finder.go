package dup

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
)

// Options configures a Finder
type Options struct {
	Dirs      []string       // input directories, in the order that decides originals
	Cross     bool           // only compare files from different directories
	Recursive bool           // descend into subdirectories
	ChunkSize int            // comparison read size in bytes, 0 for DefaultChunkSize
	Ignore    *IgnoreManager // optional paths to skip while scanning
	Progress  Progress       // optional pair progress receiver
}

// Validate checks the preconditions that must hold before any scanning
func (o *Options) Validate() error {
	if len(o.Dirs) == 0 {
		return newOpError(KindInvalidInput, "validate options", "", ErrNoDirectories)
	}
	if o.Cross && len(o.Dirs) < 2 {
		return newOpError(KindInvalidInput, "validate options", "", ErrCrossNeedsTwoDirs)
	}
	if o.ChunkSize < 0 {
		return newOpError(KindInvalidInput, "validate options", "", ErrInvalidChunkSize)
	}
	return nil
}

// Result is the outcome of a Finder run
type Result struct {
	Lists      []*FileList
	Duplicates *DuplicateMap
	PairCount  uint64
	Stats      CompareStats
}

// FileCount returns the number of files scanned across all directories
func (r *Result) FileCount() int {
	n := 0
	for _, fl := range r.Lists {
		n += fl.Len()
	}
	return n
}

// Finder scans directories, pairs their files and resolves duplicates
type Finder struct {
	fsys billy.Filesystem
	opts Options
}

// NewFinder validates opts and creates a Finder
func NewFinder(fsys billy.Filesystem, opts Options) (*Finder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// a directory given twice would be paired against itself
	dirs := make([]string, 0, len(opts.Dirs))
	seen := make(map[string]bool, len(opts.Dirs))
	for _, d := range opts.Dirs {
		d = filepath.Clean(d)
		if seen[d] {
			logger.WithField("dir", d).Warn("directory given more than once, scanning it once")
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	if opts.Cross && len(dirs) < 2 {
		return nil, newOpError(KindInvalidInput, "validate options", "", ErrCrossNeedsTwoDirs)
	}
	opts.Dirs = dirs

	return &Finder{fsys: fsys, opts: opts}, nil
}

// Scan lists the files of every input directory, in input order
func (f *Finder) Scan() ([]*FileList, error) {
	lists := make([]*FileList, 0, len(f.opts.Dirs))
	for _, dir := range f.opts.Dirs {
		fl, err := ScanDirectory(f.fsys, dir, f.opts.Recursive, f.opts.Ignore)
		if err != nil {
			return nil, err
		}
		lists = append(lists, fl)
	}
	return lists, nil
}

// Run performs the whole detection. Nothing is removed.
func (f *Finder) Run(shutdownChan <-chan struct{}) (*Result, error) {
	defer VerboseEnter()()

	comparator := NewComparator(f.fsys, f.opts.ChunkSize)
	logger.WithFields(logrus.Fields{
		"dirs":       f.opts.Dirs,
		"cross":      f.opts.Cross,
		"recursive":  f.opts.Recursive,
		"chunk_size": FormatHumanSize(comparator.ChunkSize()),
		"ignore":     f.opts.Ignore.Patterns(),
	}).Info("settings")

	lists, err := f.Scan()
	if err != nil {
		return nil, err
	}

	plan := NewPairPlan(lists, f.opts.Cross)
	total, err := plan.Count()
	if err != nil {
		return nil, err
	}

	dm, err := NewResolver(comparator, f.opts.Progress).Resolve(plan, shutdownChan)
	if err != nil {
		return nil, err
	}

	return &Result{
		Lists:      lists,
		Duplicates: dm,
		PairCount:  total,
		Stats:      comparator.Stats(),
	}, nil
}
