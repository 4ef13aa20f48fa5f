package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesher"
)

// Fixed end temperatures with no source give the linear profile.
func TestRodLinearProfile(t *testing.T) {
	const L = 1.0
	msh, err := mesher.Segment(L, 10, elements.Seg2)
	require.NoError(t, err)

	mat, _ := materials.NewThermal(50, 0)
	s, err := NewThermal(msh, mat)
	require.NoError(t, err)

	require.NoError(t, s.FixTemperature(msh.NodesWhere(func(x, y, z float64) bool { return x == 0 }), 0))
	require.NoError(t, s.FixTemperature(msh.NodesWhere(func(x, y, z float64) bool { return x == L }), 10))

	T, err := s.Solve()
	require.NoError(t, err)
	for i, n := range msh.Principal().NodeIDs() {
		x := msh.Coords().At(i, 0)
		assert.True(t, near(T[n], 10*x/L, 1e-11), "T(%g)=%g", x, T[n])
	}
}

// -k T'' = q with both ends held at zero has the parabolic solution
// q*x*(L-x)/(2k); quadratic segments carry it exactly at the nodes.
func TestRodUniformSource(t *testing.T) {
	const (
		L, k, q = 1.0, 1.0, 8.0
	)
	msh, err := mesher.Segment(L, 4, elements.Seg3)
	require.NoError(t, err)

	mat, _ := materials.NewThermal(k, 0)
	s, err := NewThermal(msh, mat)
	require.NoError(t, err)

	require.NoError(t, s.AddVolumeSource(q))
	ends := msh.NodesWhere(func(x, y, z float64) bool { return x == 0 || x == L })
	require.NoError(t, s.FixTemperature(ends, 0))

	T, err := s.Solve()
	require.NoError(t, err)
	for i, n := range msh.Principal().NodeIDs() {
		x := msh.Coords().At(i, 0)
		want := q * x * (L - x) / (2 * k)
		assert.True(t, near(T[n], want, 1e-11), "T(%g)=%g want %g", x, T[n], want)
	}
}

// The 2D plate with opposite edges held reduces to the 1D profile.
func TestPlateLinearProfile(t *testing.T) {
	const L, h = 2.0, 1.0
	msh, err := mesher.Rectangle(L, h, 0.25, elements.Quad4)
	require.NoError(t, err)

	mat, _ := materials.NewThermal(1, 0)
	s, err := NewThermal(msh, mat)
	require.NoError(t, err)

	require.NoError(t, s.FixTemperature(msh.NodesWhere(func(x, y, z float64) bool { return x == 0 }), 100))
	require.NoError(t, s.FixTemperature(msh.NodesWhere(func(x, y, z float64) bool { return x == L }), 20))

	T, err := s.Solve()
	require.NoError(t, err)
	for i, n := range msh.Principal().NodeIDs() {
		x := msh.Coords().At(i, 0)
		want := 100 + (20-100)*x/L
		assert.True(t, near(T[n], want, 1e-10), "T(%g)=%g want %g", x, T[n], want)
	}
}

func TestThermalGuards(t *testing.T) {
	msh, _ := mesher.Segment(1, 2, elements.Seg2)
	mat, _ := materials.NewThermal(1, 0)
	s, err := NewThermal(msh, mat)
	require.NoError(t, err)

	_, err = s.Solve()
	assert.ErrorIs(t, err, ErrSingularSystem)

	assert.ErrorIs(t, s.FixTemperature([]int{99}, 0), ErrBadDOF)
	assert.ErrorIs(t, s.AddNodalFlux(nil, 1), ErrBadDOF)
}
