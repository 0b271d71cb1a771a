package sliceutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type header struct {
	name  string
	lines int
}

func name(h header) string { return h.name }

func TestIndexOfWithValue(t *testing.T) {
	headers := []header{{"GBDocument.h", 12}, {"Extensions.h", 40}, {"GBDocument.h", 99}}

	idx, ok := IndexOfWithValue(headers, "Extensions.h", name).Get()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = IndexOfWithValue(headers, "GBDocument.h", name).Get()
	assert.True(t, ok)
	assert.Equal(t, 0, idx, "first match wins")

	assert.True(t, IndexOfWithValue(headers, "Missing.h", name).IsNone())
	assert.True(t, IndexOfWithValue(nil, "GBDocument.h", name).IsNone())
	assert.True(t, IndexOfWithValue[header, string](headers, "GBDocument.h", nil).IsNone())
}

func TestIndexOfWithValueZeroIndexIsFound(t *testing.T) {
	got := IndexOfWithValue([]int{5}, 5, func(v int) int { return v })
	idx, ok := got.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestContainsWithValue(t *testing.T) {
	headers := []header{{"GBDocument.h", 12}, {"Extensions.h", 40}}
	lower := func(h header) string { return strings.ToLower(h.name) }

	assert.True(t, ContainsWithValue(headers, "extensions.h", lower))
	assert.False(t, ContainsWithValue(headers, "Extensions.h", lower))
	assert.True(t, ContainsWithValue(headers, 40, func(h header) int { return h.lines }))
	assert.False(t, ContainsWithValue(headers, 41, func(h header) int { return h.lines }))
	assert.False(t, ContainsWithValue([]header{}, "x", name))
}
