package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexConstruction(t *testing.T) {
	assert.Equal(t, Index{2, 3, 4}, NewRange(2, 5))
	assert.Equal(t, Index{0, 3, 6}, NewStride(0, 9, 3))
	assert.Equal(t, Index{0, 0}, NewIndex(2))
}

func TestIndexArithmetic(t *testing.T) {
	I := NewRange(0, 3)
	assert.Equal(t, Index{10, 11, 12}, I.Add(10))
	assert.Equal(t, Index{0, 2, 4}, I.Scale(2))
	assert.Equal(t, Index{0, 1, 2}, I) // Add and Scale do not mutate
	assert.True(t, I.Contains(2))
	assert.False(t, I.Contains(3))

	assert.Equal(t, Index{0, 2}, Index{0, 1, 2}.Subset(Index{0, 2}))
	assert.Panics(t, func() { Index{0, 1}.Subset(Index{5}) })

	set := Index{1, 1, 4}.ToSet()
	assert.Len(t, set, 2)
}

func TestVectorOps(t *testing.T) {
	v := NewVector(3, []float64{3, 4, 0})
	assert.Equal(t, 5.0, v.Norm())
	assert.Equal(t, 4.0, v.Max())
	assert.Equal(t, 0.0, v.Min())

	w := v.Copy().Scale(2)
	assert.Equal(t, 8.0, w.AtVec(1))
	assert.Equal(t, 4.0, v.AtVec(1)) // receiver untouched by the copy

	w.Add(v)
	assert.Equal(t, 12.0, w.AtVec(1))

	sub := w.Subset(Index{2, 0})
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, 0.0, sub.AtVec(0))
	assert.Equal(t, 9.0, sub.AtVec(1))

	assert.Panics(t, func() { NewVector(2, []float64{1}) })
}
