package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
	"github.com/andrew-torda/resdepth/surface"
	. "github.com/andrew-torda/resdepth/surface/cache"
)

func writeStructure(t *testing.T, s string) string {
	fname := filepath.Join(t.TempDir(), "x.pdb")
	require.NoError(t, os.WriteFile(fname, []byte(s), 0o644))
	return fname
}

func TestEncodeDecode(t *testing.T) {
	for _, xyz := range []cmmn.XyzSl{
		nil,
		{{X: 1, Y: 2, Z: 3}},
		{{X: -1.5, Y: 0.25, Z: 1e6}, {X: 0, Y: 0, Z: 0}, {X: 3.14159, Y: -2.71828, Z: 42}},
	} {
		val, err := Encode(surface.New(xyz))
		require.NoError(t, err)
		s, err := Decode(val)
		require.NoError(t, err)
		assert.Equal(t, len(xyz), s.Len())
		for i := range xyz {
			assert.Equal(t, xyz[i], s.At(i))
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	bad := []byte{0xff, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2} // properties out of range
	_, err := Decode(bad)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestGetPut(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	defer c.Close()

	fname := writeStructure(t, "ATOM stuff\n")
	_, ok, err := c.Get(fname, "a")
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	want := cmmn.XyzSl{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	require.NoError(t, c.Put(fname, "a", surface.New(want)))

	s, ok, err := c.Get(fname, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, s.Xyz())

	_, ok, err = c.Get(fname, "b")
	require.NoError(t, err)
	assert.False(t, ok, "different tag should miss")

	require.NoError(t, os.WriteFile(fname, []byte("ATOM other stuff\n"), 0o644))
	_, ok, err = c.Get(fname, "a")
	require.NoError(t, err)
	assert.False(t, ok, "changed file should miss")
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	fname := writeStructure(t, "ATOM stuff\n")
	c, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, c.Put(fname, "a", surface.New(cmmn.XyzSl{{X: 7, Y: 8, Z: 9}})))
	require.NoError(t, c.Close())

	c, err = Open(dir, nil)
	require.NoError(t, err)
	defer c.Close()
	s, ok, err := c.Get(fname, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cmmn.Xyz{X: 7, Y: 8, Z: 9}, s.At(0))
}

func TestMissingStructure(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	defer c.Close()
	_, _, err = c.Get(filepath.Join(t.TempDir(), "nothing.pdb"), "a")
	assert.Error(t, err)
}
