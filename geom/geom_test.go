package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointTransforms(t *testing.T) {
	p := NewPoint(1, 0, 0)

	q := p.Translate(1, 2, 3)
	assert.Equal(t, NewPoint(2, 2, 3), q)
	// value semantics: p untouched
	assert.Equal(t, NewPoint(1, 0, 0), p)

	r := p.Rotate(math.Pi/2, NewPoint(0, 0, 0), [3]float64{0, 0, 1})
	assert.InDelta(t, 0, r.X, 1e-14)
	assert.InDelta(t, 1, r.Y, 1e-14)

	m := p.Reflect(NewPoint(0, 0, 0), [3]float64{1, 0, 0})
	assert.InDelta(t, -1, m.X, 1e-14)
}

func TestLine(t *testing.T) {
	l := NewLine(NewPoint(0, 0, 0), NewPoint(3, 4, 0))
	assert.InDelta(t, 5, l.Length(), 1e-14)
	u := l.UnitVector()
	assert.InDelta(t, 0.6, u[0], 1e-14)
	assert.InDelta(t, 0.8, u[1], 1e-14)
}

func TestDomainContains(t *testing.T) {
	d := NewDomain(NewPoint(0, 0, 0), NewPoint(2, 1, 0))
	assert.True(t, d.Contains(2, 1, 0))
	assert.True(t, d.Contains(1, 0.5, 0))
	assert.False(t, d.Contains(2.1, 0.5, 0))
}

func TestPerimeters(t *testing.T) {
	c := NewCircle(NewPoint(0, 0, 0), 2)
	assert.InDelta(t, 2*math.Pi, c.Perimeter(), 1e-14)

	pl := PointsList{Pts: []Point{
		NewPoint(0, 0, 0), NewPoint(1, 0, 0), NewPoint(1, 1, 0),
	}}
	assert.InDelta(t, 2, pl.Perimeter(), 1e-14)

	contour := Contour{Members: []Primitive{
		NewLine(NewPoint(0, 0, 0), NewPoint(1, 0, 0)),
		NewLine(NewPoint(1, 0, 0), NewPoint(1, 1, 0)),
	}}
	assert.InDelta(t, 2, contour.Perimeter(), 1e-14)
}
