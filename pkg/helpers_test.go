package dup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// newMemFS builds an in-memory filesystem holding files (path -> content)
func newMemFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for path, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

// writeTree creates files (relative path -> content) under root on the real filesystem
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// pairsOf flattens pairs into "first|second" strings for set comparisons
func pairsOf(pairs []Pair) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.First+"|"+p.Second)
	}
	return out
}

// neverClosed is a shutdown channel that is never signalled
func neverClosed() <-chan struct{} {
	return make(chan struct{})
}

// collectPairs materialises every pair a source emits
func collectPairs(source PairSource) []Pair {
	var pairs []Pair
	source.ForEach(func(p Pair) bool {
		pairs = append(pairs, p)
		return true
	})
	return pairs
}

// countingProgress records the signals it receives
type countingProgress struct {
	Total     uint64
	Processed uint64
	Started   bool
	Finished  bool
}

func (cp *countingProgress) Start(total uint64) {
	cp.Total = total
	cp.Started = true
}

func (cp *countingProgress) Increment() { cp.Processed++ }

func (cp *countingProgress) Finish() { cp.Finished = true }
