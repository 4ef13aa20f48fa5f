package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesher"
)

func phaseFieldSetup(t *testing.T) *PhaseField {
	t.Helper()
	msh, err := mesher.Rectangle(1, 1, 0.25, elements.Tri3)
	require.NoError(t, err)
	elas, _ := materials.NewElasIsot(210, 0.3)
	elas.PlaneStress = true
	mat, err := materials.NewPhaseField(elas, 2.7e-3, 0.1)
	require.NoError(t, err)
	pf, err := NewPhaseField(msh, mat)
	require.NoError(t, err)
	return pf
}

// With no loading the history stays zero and the damage problem has
// the trivial solution.
func TestDamageZeroWithoutHistory(t *testing.T) {
	pf := phaseFieldSetup(t)
	d, err := pf.SolveDamage()
	require.NoError(t, err)
	for _, v := range d {
		assert.Equal(t, 0.0, v)
	}
}

func TestHistoryIsMonotone(t *testing.T) {
	pf := phaseFieldSetup(t)
	var (
		s   = pf.Elastic()
		msh = s.msh
	)
	left := msh.NodesWhere(func(x, y, z float64) bool { return x == 0 })
	right := msh.NodesWhere(func(x, y, z float64) bool { return x == 1 })
	require.NoError(t, s.Fix(left, 0, 0))
	require.NoError(t, s.Fix(msh.NodesWhere(func(x, y, z float64) bool { return y == 0 }), 1, 0))

	// stretch, then relax: history must keep the peak
	require.NoError(t, s.Fix(right, 0, 1e-2))
	u, err := s.Solve()
	require.NoError(t, err)
	require.NoError(t, pf.UpdateHistory(u))
	peak := pf.History().Copy()

	require.NoError(t, s.Fix(right, 0, 1e-3))
	u, err = s.Solve()
	require.NoError(t, err)
	require.NoError(t, pf.UpdateHistory(u))

	ne, np := pf.History().Dims()
	for e := 0; e < ne; e++ {
		for p := 0; p < np; p++ {
			assert.Equal(t, peak.At(e, p), pf.History().At(e, p))
		}
	}
}

// Under load control, the damage from one step must soften the elastic
// pass of the next: larger displacements, then more history and more
// damage.
func TestDamageSoftensNextStep(t *testing.T) {
	pf := phaseFieldSetup(t)
	var (
		s   = pf.Elastic()
		msh = s.msh
	)
	require.NoError(t, s.Fix(msh.NodesWhere(func(x, y, z float64) bool { return x == 0 }), 0, 0))
	require.NoError(t, s.Fix(msh.NodesWhere(func(x, y, z float64) bool { return y == 0 }), 1, 0))
	right := msh.NodesWhere(func(x, y, z float64) bool { return x == 1 })
	require.NoError(t, s.AddLineLoad(right, 0, 2.0))

	u1, d1, err := pf.Step()
	require.NoError(t, err)
	require.NotNil(t, pf.Damage())

	u2, d2, err := pf.Step()
	require.NoError(t, err)

	var n = right[0]
	assert.True(t, d1[n] > 0)
	assert.True(t, u2[2*n] > u1[2*n], "degraded stiffness must stretch further: %g vs %g", u2[2*n], u1[2*n])
	assert.True(t, d2[n] > d1[n], "growing history must deepen damage: %g vs %g", d2[n], d1[n])

	// the degraded law really is g(d)*C at the quadrature points
	cOf, err := pf.DegradedConstitutive()
	require.NoError(t, err)
	C, err := s.constitutive()
	require.NoError(t, err)
	ratio := cOf(0, 0).At(0, 0) / C.At(0, 0)
	assert.True(t, ratio > 0 && ratio < 1)
}

// A homogeneous stretch drives a homogeneous damage field matching the
// pointwise optimum d = 2H/(Gc/l0 + 2H).
func TestStepHomogeneousStretch(t *testing.T) {
	pf := phaseFieldSetup(t)
	var (
		s   = pf.Elastic()
		msh = s.msh
	)
	require.NoError(t, s.Fix(msh.NodesWhere(func(x, y, z float64) bool { return x == 0 }), 0, 0))
	require.NoError(t, s.Fix(msh.NodesWhere(func(x, y, z float64) bool { return y == 0 }), 1, 0))
	require.NoError(t, s.Fix(msh.NodesWhere(func(x, y, z float64) bool { return x == 1 }), 0, 1e-2))

	u, d, err := pf.Step()
	require.NoError(t, err)
	assert.Equal(t, msh.DOFCount(2), len(u))
	assert.Equal(t, msh.DOFCount(1), len(d))

	var (
		h    = pf.History().At(0, 0)
		want = pf.mat.SourceCoef(h) / pf.mat.ReactionCoef(h)
	)
	assert.True(t, h > 0)
	for n, v := range d {
		assert.True(t, v > 0 && v < 1, "d[%d]=%g", n, v)
		assert.True(t, near(v, want, 1e-8), "d[%d]=%g want %g", n, v, want)
	}
}
