package elements

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []ElemType{Seg2, Seg3, Tri3, Tri6, Quad4, Quad8, Tetra4, Hexa8, Prism6}

func TestPartitionOfUnity(t *testing.T) {
	for _, et := range allTypes {
		for _, kind := range []MatrixKind{Stiffness, Mass} {
			g, err := NewGauss(et, kind)
			require.NoError(t, err)
			for p := 0; p < g.NPG(); p++ {
				N, err := ShapeAt(et, g.Coords[p])
				require.NoError(t, err)
				var sum float64
				for _, v := range N {
					sum += v
				}
				assert.InDelta(t, 1, sum, 1e-12, "%v %v point %d", et, kind, p)
			}
		}
	}
}

func TestKroneckerDelta(t *testing.T) {
	for _, et := range allTypes {
		ref, err := RefCoords(et)
		require.NoError(t, err)
		require.Len(t, ref, et.NPE())
		for j, rc := range ref {
			N, err := ShapeAt(et, rc)
			require.NoError(t, err)
			for i := range N {
				want := 0.
				if i == j {
					want = 1.
				}
				assert.InDelta(t, want, N[i], 1e-12, "%v N_%d at node %d", et, i, j)
			}
		}
	}
}

// The gradients of a partition of unity sum to zero in every direction.
func TestDerivativeSumsVanish(t *testing.T) {
	for _, et := range allTypes {
		g, err := NewGauss(et, Mass)
		require.NoError(t, err)
		for p := 0; p < g.NPG(); p++ {
			dN, err := DerivAt(et, g.Coords[p])
			require.NoError(t, err)
			require.Len(t, dN, et.Dim())
			for d := 0; d < et.Dim(); d++ {
				var sum float64
				for _, v := range dN[d] {
					sum += v
				}
				assert.InDelta(t, 0, sum, 1e-12, "%v d%d point %d", et, d, p)
			}
		}
	}
}

// Quadrature weights must sum to the reference element measure.
func TestWeightSums(t *testing.T) {
	measures := map[ElemType]float64{
		Seg2: 2, Seg3: 2,
		Tri3: 0.5, Tri6: 0.5,
		Quad4: 4, Quad8: 4,
		Tetra4: 1. / 6, Hexa8: 8, Prism6: 1,
	}
	for _, et := range allTypes {
		for _, kind := range []MatrixKind{Stiffness, Mass} {
			g, err := NewGauss(et, kind)
			require.NoError(t, err)
			var sum float64
			for _, w := range g.Weights {
				assert.True(t, w > 0, "%v %v has a non-positive weight", et, kind)
				sum += w
			}
			assert.InDelta(t, measures[et], sum, 1e-14, "%v %v", et, kind)
		}
	}
}

// Gradients must interpolate linear fields exactly: for u(r) = r_d at
// the nodes, sum_i dN_i/dr_c * u_i equals the Kronecker delta dc.
func TestLinearCompleteness(t *testing.T) {
	for _, et := range allTypes {
		ref, err := RefCoords(et)
		require.NoError(t, err)
		g, err := NewGauss(et, Stiffness)
		require.NoError(t, err)
		for p := 0; p < g.NPG(); p++ {
			dN, err := DerivAt(et, g.Coords[p])
			require.NoError(t, err)
			for c := 0; c < et.Dim(); c++ {
				for d := 0; d < et.Dim(); d++ {
					var sum float64
					for i := 0; i < et.NPE(); i++ {
						sum += dN[c][i] * ref[i][d]
					}
					want := 0.
					if c == d {
						want = 1.
					}
					assert.InDelta(t, want, sum, 1e-12, "%v d(r_%d)/dr_%d", et, d, c)
				}
			}
		}
	}
}

func TestPointElementsNotApplicable(t *testing.T) {
	N, err := ShapeAt(Point, nil)
	assert.NoError(t, err)
	assert.Nil(t, N)
	dN, err := DerivAt(Point, nil)
	assert.NoError(t, err)
	assert.Nil(t, dN)
}

func TestUnsupportedTopology(t *testing.T) {
	_, err := ShapeAt(ElemType(99), []float64{0, 0, 0})
	assert.ErrorIs(t, err, ErrUnsupportedTopology)
	_, err = NewGauss(ElemType(99), Stiffness)
	assert.ErrorIs(t, err, ErrNoQuadrature)
	_, err = FromName("PYRA5")
	assert.ErrorIs(t, err, ErrUnsupportedTopology)

	et, err := FromName("TRI6")
	assert.NoError(t, err)
	assert.Equal(t, Tri6, et)
}

func TestGaussDeterminism(t *testing.T) {
	a, err := NewGauss(Tri6, Mass)
	require.NoError(t, err)
	b, err := NewGauss(Tri6, Mass)
	require.NoError(t, err)
	require.Equal(t, a.NPG(), b.NPG())
	for p := range a.Coords {
		assert.Equal(t, a.Coords[p], b.Coords[p])
		assert.True(t, math.Abs(a.Weights[p]-b.Weights[p]) == 0)
	}
}
