package dup

import (
	"github.com/go-git/go-billy/v5"
)

// RemoveOptions controls RemoveDuplicates
type RemoveOptions struct {
	DryRun bool // report what would be removed without touching the filesystem
}

// RemoveDuplicates deletes every duplicate in dm, in duplicate path order.
//
// Before each removal the recorded original is checked to still exist; if it does not the
// run stops without deleting the duplicate. The first failure aborts and is returned with
// the offending path. The paths removed so far are returned in both cases.
func RemoveDuplicates(fsys billy.Basic, dm *DuplicateMap, opts RemoveOptions) ([]string, error) {
	defer VerboseEnter()()

	removed := make([]string, 0, dm.Len())
	var runErr error

	dm.ForEach(func(duplicate, original string) bool {
		if _, err := fsys.Stat(original); err != nil {
			runErr = newOpError(KindRemove, "remove file", duplicate, &OpError{
				Kind: KindRemove,
				Op:   "stat original",
				Path: original,
				Err:  ErrOriginalMissing,
			})
			return false
		}

		if opts.DryRun {
			debugLog(DebugRemove, "would remove %s (duplicate of %s)", duplicate, original)
			removed = append(removed, duplicate)
			return true
		}

		if err := fsys.Remove(duplicate); err != nil {
			runErr = newOpError(KindRemove, "remove file", duplicate, err)
			return false
		}
		debugLog(DebugRemove, "removed %s (duplicate of %s)", duplicate, original)
		removed = append(removed, duplicate)
		return true
	})

	VerboseLog(VerboseBasic, "removed %d of %d duplicates", len(removed), dm.Len())
	return removed, runErr
}
