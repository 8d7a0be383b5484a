package dup

import "github.com/sirupsen/logrus"

// Resolver walks a pair sequence and classifies duplicates
type Resolver struct {
	comparator *Comparator
	progress   Progress
}

// NewResolver creates a resolver. A nil progress discards progress signals.
func NewResolver(comparator *Comparator, progress Progress) *Resolver {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Resolver{comparator: comparator, progress: progress}
}

// Resolve compares pairs in source order and returns the duplicate map.
//
// A pair is skipped when either path is already recorded as a duplicate, so a file is
// classified at most once and a duplicate is never used as an original. When the
// contents match, the second path of the pair becomes a duplicate of the first.
//
// Any comparison error or a closed shutdownChan aborts the run and no map is returned.
func (r *Resolver) Resolve(source PairSource, shutdownChan <-chan struct{}) (*DuplicateMap, error) {
	defer VerboseEnter()()

	total, err := source.Count()
	if err != nil {
		return nil, err
	}
	VerboseLog(VerboseBasic, "comparing %d pairs", total)

	dm := NewDuplicateMap()
	var skipped uint64
	var runErr error

	r.progress.Start(total)
	source.ForEach(func(p Pair) bool {
		select {
		case <-shutdownChan:
			runErr = newOpError(KindInterrupted, "compare files", "", ErrInterrupted)
			return false
		default:
		}

		if dm.Contains(p.First) || dm.Contains(p.Second) {
			skipped++
			r.progress.Increment()
			return true
		}

		if IsDebugEnabled(DebugPairs) {
			debugLog(DebugPairs, "comparing %s with %s", p.First, p.Second)
		}

		same, err := r.comparator.Equal(p.First, p.Second)
		if err != nil {
			runErr = err
			return false
		}
		if same {
			dm.add(p.Second, p.First)
			VerboseLog(VerboseDetail, "%s is a duplicate of %s", p.Second, p.First)
		}

		r.progress.Increment()
		return true
	})
	r.progress.Finish()

	if runErr != nil {
		return nil, runErr
	}

	stats := r.comparator.Stats()
	logger.WithFields(logrus.Fields{
		"pairs":           total,
		"skipped":         skipped,
		"comparisons":     stats.Comparisons,
		"size_mismatches": stats.SizeMismatches,
		"bytes_read":      stats.BytesRead,
		"duplicates":      dm.Len(),
	}).Info("resolve complete")

	return dm, nil
}
