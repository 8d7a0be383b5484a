package dup

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparator_Equal(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     string
		chunk    int
		expected bool
	}{
		{"both empty", "", "", 0, true},
		{"identical", "hello", "hello", 0, true},
		{"last byte differs", "hello", "hellp", 0, false},
		{"first byte differs", "hello", "jello", 0, false},
		{"identical multi chunk", strings.Repeat("abc", 100), strings.Repeat("abc", 100), 7, true},
		{"exact chunk multiple", "abcdefgh", "abcdefgh", 4, true},
		{"differs in later chunk", strings.Repeat("a", 64) + "b", strings.Repeat("a", 64) + "c", 8, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := newMemFS(t, map[string]string{"/a": tc.a, "/b": tc.b})
			c := NewComparator(fsys, tc.chunk)

			same, err := c.Equal("/a", "/b")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, same)
		})
	}
}

func TestComparator_SizeShortCircuit(t *testing.T) {
	fsys := newMemFS(t, map[string]string{"/short": "hello", "/long": "hello world"})
	c := NewComparator(fsys, 0)

	same, err := c.Equal("/short", "/long")
	require.NoError(t, err)
	assert.False(t, same)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Comparisons)
	assert.Equal(t, uint64(1), stats.SizeMismatches)
	assert.Zero(t, stats.ChunksRead, "content must not be read when sizes differ")
	assert.Zero(t, stats.BytesRead)
}

func TestComparator_StopsAtFirstDifference(t *testing.T) {
	a := "x" + strings.Repeat("a", 99)
	b := "y" + strings.Repeat("a", 99)
	fsys := newMemFS(t, map[string]string{"/a": a, "/b": b})
	c := NewComparator(fsys, 10)

	same, err := c.Equal("/a", "/b")
	require.NoError(t, err)
	assert.False(t, same)
	assert.Equal(t, uint64(1), c.Stats().ChunksRead)
	assert.Equal(t, uint64(20), c.Stats().BytesRead)
}

func TestComparator_MissingFile(t *testing.T) {
	fsys := newMemFS(t, map[string]string{"/a": "hello"})
	c := NewComparator(fsys, 0)

	_, err := c.Equal("/a", "/gone")
	require.Error(t, err)
	assert.Equal(t, KindCompare, KindOf(err))
	assert.Equal(t, "/gone", PathOf(err))

	_, err = c.Equal("/gone", "/a")
	require.Error(t, err)
	assert.Equal(t, "/gone", PathOf(err))
}

func TestComparator_SymlinkAliasIsNotADuplicate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"dir/a.txt": "hello"})
	a := filepath.Join(root, "dir", "a.txt")
	symlinked := filepath.Join(root, "symlinked.txt")
	require.NoError(t, os.Symlink(filepath.Join("dir", "a.txt"), symlinked))
	require.NoError(t, os.Symlink("dir", filepath.Join(root, "linkdir")))
	viaDir := filepath.Join(root, "linkdir", "a.txt")

	c := NewComparator(NewOSFilesystem(), 0)
	for _, pair := range [][2]string{{a, symlinked}, {symlinked, a}, {a, viaDir}, {viaDir, a}} {
		same, err := c.Equal(pair[0], pair[1])
		require.NoError(t, err)
		assert.False(t, same, "%s vs %s", pair[0], pair[1])
	}
	assert.Equal(t, uint64(4), c.Stats().SameFile)
	assert.Equal(t, uint64(0), c.Stats().HardLinks)
}

func TestComparator_HardLinksAreDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "hello"})
	a := filepath.Join(root, "a.txt")
	linked := filepath.Join(root, "linked.txt")
	require.NoError(t, os.Link(a, linked))

	c := NewComparator(NewOSFilesystem(), 0)
	same, err := c.Equal(a, linked)
	require.NoError(t, err)
	assert.True(t, same)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.HardLinks)
	assert.Equal(t, uint64(0), stats.SameFile)
	assert.Equal(t, uint64(0), stats.BytesRead)
}

func TestComparator_OSFiles(t *testing.T) {
	root := t.TempDir()
	content := strings.Repeat("0123456789", 1000)
	writeTree(t, root, map[string]string{
		"a.bin": content,
		"b.bin": content,
		"c.bin": content[:len(content)-1] + "X",
	})

	c := NewComparator(NewOSFilesystem(), 4096)

	same, err := c.Equal(filepath.Join(root, "a.bin"), filepath.Join(root, "b.bin"))
	require.NoError(t, err)
	assert.True(t, same)

	same, err = c.Equal(filepath.Join(root, "a.bin"), filepath.Join(root, "c.bin"))
	require.NoError(t, err)
	assert.False(t, same)
}

func TestEqualReaders_ShortReads(t *testing.T) {
	data := strings.Repeat("short reads ", 50)

	same, err := EqualReaders(
		iotest.OneByteReader(strings.NewReader(data)),
		iotest.HalfReader(strings.NewReader(data)),
		16,
	)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestEqualReaders_LengthMismatch(t *testing.T) {
	same, err := EqualReaders(strings.NewReader("abc"), strings.NewReader("abcd"), 2)
	require.NoError(t, err)
	assert.False(t, same)

	same, err = EqualReaders(bytes.NewReader(nil), strings.NewReader("a"), 2)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestEqualReaders_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := EqualReaders(strings.NewReader("abc"), iotest.ErrReader(boom), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, KindCompare, KindOf(err))

	_, err = EqualReaders(io.MultiReader(strings.NewReader("ab"), iotest.ErrReader(boom)), strings.NewReader("abcd"), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewComparator_DefaultChunkSize(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, NewComparator(nil, 0).ChunkSize())
	assert.Equal(t, DefaultChunkSize, NewComparator(nil, -5).ChunkSize())
	assert.Equal(t, 4096, NewComparator(nil, 4096).ChunkSize())
}
