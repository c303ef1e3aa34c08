package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_TransformsWithIndex(t *testing.T) {
	out := Map([]string{"a", "b", "c"}, func(s string, i uint64) string {
		return s + string(rune('0'+i))
	})
	assert.Equal(t, []string{"a0", "b1", "c2"}, out)
}

func TestMap_Empty(t *testing.T) {
	out := Map([]int{}, func(i int, _ uint64) int { return i })
	assert.Empty(t, out)
}

func TestIndexOf(t *testing.T) {
	coll := []uint64{5, 7, 9}
	assert.Equal(t, 1, IndexOf(coll, func(i uint64) bool { return i == 7 }))
	assert.Equal(t, -1, IndexOf(coll, func(i uint64) bool { return i == 8 }))
}

func TestIndexOrAppend(t *testing.T) {
	coll := []uint64{5, 7}

	coll, idx := IndexOrAppend(coll, 7)
	assert.Equal(t, 1, idx)
	assert.Len(t, coll, 2)

	coll, idx = IndexOrAppend(coll, 11)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []uint64{5, 7, 11}, coll)
}
