package dup

import (
	"sort"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// DuplicatePair is one entry of a DuplicateMap
type DuplicatePair struct {
	File        string `json:"file"`
	DuplicateOf string `json:"duplicate_of"`
}

// DuplicateGroup is an original together with every file recorded as its duplicate
type DuplicateGroup struct {
	Original   string   `json:"original"`
	Duplicates []string `json:"duplicates"`
	Count      int      `json:"count"`
}

// duplicateEntry is the skiplist item; the skiplist context holds the original path
type duplicateEntry struct {
	path string
}

// DuplicateMap maps each duplicate path to the original it matched.
// Iteration is always in duplicate path order. Not safe for concurrent use.
type DuplicateMap struct {
	skiplist *zcsl.ZeroCopySkiplist[duplicateEntry, string, string]
}

// NewDuplicateMap creates an empty map
func NewDuplicateMap() *DuplicateMap {
	getKeyFromItem := func(e *duplicateEntry) string {
		return e.path
	}
	getItemSize := func(e *duplicateEntry) int {
		return len(e.path)
	}
	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	return &DuplicateMap{
		skiplist: zcsl.MakeZeroCopySkiplist[duplicateEntry, string, string](
			16,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// Len returns the number of duplicates
func (dm *DuplicateMap) Len() int {
	return dm.skiplist.Length()
}

// IsEmpty reports whether no duplicates were recorded
func (dm *DuplicateMap) IsEmpty() bool {
	return dm.skiplist.IsEmpty()
}

// Contains reports whether path is recorded as a duplicate
func (dm *DuplicateMap) Contains(path string) bool {
	node, _ := dm.skiplist.Find(path)
	return node != nil
}

// Original returns the original recorded for duplicate
func (dm *DuplicateMap) Original(duplicate string) (string, bool) {
	node, original := dm.skiplist.Find(duplicate)
	if node == nil {
		return "", false
	}
	return original, true
}

// add records duplicate as a copy of original. An existing entry is left untouched.
func (dm *DuplicateMap) add(duplicate, original string) bool {
	if dm.Contains(duplicate) {
		return false
	}
	return dm.skiplist.Insert(&duplicateEntry{path: duplicate}, original)
}

// ForEach calls fn for every (duplicate, original) in duplicate path order until fn returns false
func (dm *DuplicateMap) ForEach(fn func(duplicate, original string) bool) {
	for current := dm.skiplist.First(); current != nil; current = current.Next() {
		if !fn(current.Item().path, current.Context()) {
			return
		}
	}
}

// Pairs returns every entry in duplicate path order
func (dm *DuplicateMap) Pairs() []DuplicatePair {
	pairs := make([]DuplicatePair, 0, dm.Len())
	dm.ForEach(func(duplicate, original string) bool {
		pairs = append(pairs, DuplicatePair{File: duplicate, DuplicateOf: original})
		return true
	})
	return pairs
}

// Duplicates returns the duplicate paths in sorted order
func (dm *DuplicateMap) Duplicates() []string {
	paths := make([]string, 0, dm.Len())
	dm.ForEach(func(duplicate, _ string) bool {
		paths = append(paths, duplicate)
		return true
	})
	return paths
}

// Groups collects duplicates by original. Groups are sorted by original path and
// duplicates within a group by their own path.
func (dm *DuplicateMap) Groups() []DuplicateGroup {
	byOriginal := make(map[string][]string)
	dm.ForEach(func(duplicate, original string) bool {
		byOriginal[original] = append(byOriginal[original], duplicate)
		return true
	})

	groups := make([]DuplicateGroup, 0, len(byOriginal))
	for original, files := range byOriginal {
		groups = append(groups, DuplicateGroup{
			Original:   original,
			Duplicates: files,
			Count:      len(files),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Original < groups[j].Original
	})
	return groups
}
