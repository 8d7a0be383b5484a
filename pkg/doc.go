// Package dup finds files with identical contents across one or more directory trees.
//
// # Core API
//
// Detection runs in three steps, each usable on its own:
//
//	fsys := dup.NewOSFilesystem()
//	list, err := dup.ScanDirectory(fsys, "/photos", true, nil)
//	plan := dup.NewPairPlan([]*dup.FileList{list}, false)
//	dm, err := dup.NewResolver(dup.NewComparator(fsys, 0), nil).Resolve(plan, nil)
//
// Finder wires the steps together:
//
//	f, err := dup.NewFinder(fsys, dup.Options{Dirs: []string{"a", "b"}, Cross: true})
//	result, err := f.Run(shutdownChan)
//	result.Duplicates.ForEach(func(duplicate, original string) bool {
//		fmt.Printf("%s is a copy of %s\n", duplicate, original)
//		return true
//	})
//
// # Ordering
//
// Which file of an identical set is kept as the original depends only on the order of
// the input directories and the sorted order of each directory listing. The first file
// encountered wins; every later identical file is recorded against it and is never
// compared again.
//
// # Removal
//
// RemoveDuplicates deletes every recorded duplicate. Originals are never removed.
//
// # Configuration
//
//	cfg, err := dup.LoadConfig(dup.DefaultConfigPath())
//	dup.SetVerboseLevel(cfg.GetVerboseConfig().Level)
//	dup.SetDebugFlags("scan,pairs")
package dup
