package dup

// Pair is two distinct paths to compare. Second is the one marked as the duplicate
// when the contents match.
type Pair struct {
	First  string
	Second string
}

// PairSource produces pairs in a fixed order and knows how many it will produce
type PairSource interface {
	// Count returns the number of pairs ForEach will emit
	Count() (uint64, error)
	// ForEach calls fn for every pair in order until fn returns false
	ForEach(fn func(Pair) bool)
}

// PairPlan lazily generates the pairs for a set of file lists.
//
// Without cross, every 2-combination inside each list is emitted first, list by list,
// followed by the cartesian product of every list pair (i, j) with i < j. With cross
// only the cartesian products are emitted.
//
// Overlapping inputs (a directory and one of its subdirectories, scanned recursively) list
// some paths more than once. Each unordered pair is still emitted once, at its first
// position in the order above, and a path is never paired with itself.
type PairPlan struct {
	lists []*FileList
	cross bool
	// shared holds the paths listed under more than one directory, nil without overlap
	shared map[string]bool
}

// NewPairPlan creates a pair plan. The lists are borrowed, not copied.
func NewPairPlan(lists []*FileList, cross bool) *PairPlan {
	pp := &PairPlan{lists: lists, cross: cross}
	for i := 0; i < len(lists); i++ {
		for j := i + 1; j < len(lists); j++ {
			forEachShared(lists[i], lists[j], func(path string) {
				if pp.shared == nil {
					pp.shared = make(map[string]bool)
				}
				pp.shared[path] = true
			})
		}
	}
	if len(pp.shared) > 0 {
		VerboseLog(VerboseBasic, "%d paths are listed under more than one directory", len(pp.shared))
	}
	return pp
}

// Count returns the exact number of pairs ForEach emits
func (pp *PairPlan) Count() (uint64, error) {
	if pp.shared != nil {
		// repeats depend on where the shared paths sit, so walk the plan
		var total uint64
		pp.ForEach(func(Pair) bool {
			total++
			return true
		})
		return total, nil
	}

	var total uint64
	var ok bool

	if !pp.cross {
		for _, fl := range pp.lists {
			n := uint64(fl.Len())
			if n < 2 {
				continue
			}
			// n*(n-1)/2 without overflowing on the intermediate product
			a, b := n, n-1
			if a%2 == 0 {
				a /= 2
			} else {
				b /= 2
			}
			if total, ok = mulAdd(total, a, b); !ok {
				return 0, newOpError(KindOverflow, "count pairs", "", ErrPairCountOverflow)
			}
		}
	}

	for i := 0; i < len(pp.lists); i++ {
		for j := i + 1; j < len(pp.lists); j++ {
			if total, ok = mulAdd(total, uint64(pp.lists[i].Len()), uint64(pp.lists[j].Len())); !ok {
				return 0, newOpError(KindOverflow, "count pairs", "", ErrPairCountOverflow)
			}
		}
	}

	return total, nil
}

// ForEach emits the pairs in deterministic order
func (pp *PairPlan) ForEach(fn func(Pair) bool) {
	emit := fn
	if pp.shared != nil {
		seen := make(map[Pair]bool)
		emit = func(p Pair) bool {
			if p.First == p.Second {
				return true
			}
			if !pp.shared[p.First] && !pp.shared[p.Second] {
				return fn(p)
			}
			key := p
			if comparePaths(key.Second, key.First) < 0 {
				key = Pair{First: p.Second, Second: p.First}
			}
			if seen[key] {
				return true
			}
			seen[key] = true
			return fn(p)
		}
	}

	if !pp.cross {
		for _, fl := range pp.lists {
			for x := 0; x < len(fl.paths); x++ {
				for y := x + 1; y < len(fl.paths); y++ {
					if !emit(Pair{First: fl.paths[x], Second: fl.paths[y]}) {
						return
					}
				}
			}
		}
	}

	for i := 0; i < len(pp.lists); i++ {
		for j := i + 1; j < len(pp.lists); j++ {
			for _, a := range pp.lists[i].paths {
				for _, b := range pp.lists[j].paths {
					if !emit(Pair{First: a, Second: b}) {
						return
					}
				}
			}
		}
	}
}

// forEachShared calls fn for every path present in both sorted lists
func forEachShared(a, b *FileList, fn func(path string)) {
	i, j := 0, 0
	for i < len(a.paths) && j < len(b.paths) {
		switch c := comparePaths(a.paths[i], b.paths[j]); {
		case c == 0:
			fn(a.paths[i])
			i++
			j++
		case c < 0:
			i++
		default:
			j++
		}
	}
}

// PairSlice is a PairSource over an explicit, caller-ordered list of pairs
type PairSlice []Pair

// Count returns the number of pairs
func (ps PairSlice) Count() (uint64, error) {
	return uint64(len(ps)), nil
}

// ForEach emits the pairs in slice order
func (ps PairSlice) ForEach(fn func(Pair) bool) {
	for _, p := range ps {
		if !fn(p) {
			return
		}
	}
}
