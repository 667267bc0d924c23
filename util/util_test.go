package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModFollowsDivisorSign(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(6, Mod(-1, 7))
	assert.Equal(0, Mod(-7, 7))
	assert.Equal(3, Mod(10, 7))
	assert.Equal(11, Mod(-13, 12))
}

func TestFloorDiv(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, FloorDiv(-1, 12))
	assert.Equal(-1, FloorDiv(-12, 12))
	assert.Equal(-2, FloorDiv(-13, 12))
	assert.Equal(5, FloorDiv(71, 12))
}

func TestGetKeysSorted(t *testing.T) {
	keys := GetKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestProduct(t *testing.T) {
	var got [][]int
	Product([]int{1, 2}, 2, func(tuple []int) {
		got = append(got, append([]int(nil), tuple...))
	})
	assert.Equal(t, [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, got)
}

func TestProductOfNothing(t *testing.T) {
	calls := 0
	Product([]int{}, 3, func([]int) { calls++ })
	assert.Equal(t, 0, calls)
}

func TestReverse(t *testing.T) {
	s := []int{1, 2, 3}
	Reverse(s)
	assert.Equal(t, []int{3, 2, 1}, s)
}

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mid", "b.midi", "notes.txt", "sub/c.mid"} {
		path := filepath.Join(dir, name)
		assert.NoError(t, EnsureDir(filepath.Dir(path)))
		assert.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	paths, err := GatherAllMidiPaths(dir, 0)
	assert.NoError(t, err)
	assert.Len(t, paths, 3)

	paths, err = GatherAllMidiPaths(dir, 2)
	assert.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = GatherAllMidiPaths(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)
}
