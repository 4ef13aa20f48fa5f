package materials

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestElasIsotValidation(t *testing.T) {
	_, err := NewElasIsot(-1, 0.3)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
	_, err = NewElasIsot(210e9, 0.5)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
	m, err := NewElasIsot(210e9, 0.3)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, m.Thickness)
}

func TestLamePair(t *testing.T) {
	m, _ := NewElasIsot(1, 0.25)
	lambda, mu := m.Lame()
	assert.True(t, near(lambda, 0.4, 1e-12))
	assert.True(t, near(mu, 0.4, 1e-12))
}

func TestConstitutiveSymmetry(t *testing.T) {
	m, _ := NewElasIsot(210e9, 0.3)
	for _, dim := range []int{2, 3} {
		C, err := m.C(dim)
		assert.NoError(t, err)
		assert.True(t, C.IsSymmetric(1e-6))
	}
	_, err := m.C(1)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
}

func TestHydrostaticResponse3D(t *testing.T) {
	m, _ := NewElasIsot(100, 0.3)
	lambda, mu := m.Lame()
	C, _ := m.C(3)
	// hydrostatic strain maps to (3*lambda+2*mu)/3 pressure per axis
	for i := 0; i < 3; i++ {
		var sum float64
		for j := 0; j < 3; j++ {
			sum += C.At(i, j)
		}
		assert.True(t, near(sum, 3*lambda+2*mu, 1e-9))
	}
	// shear rows decouple and carry 2*mu
	for i := 3; i < 6; i++ {
		for j := 0; j < 6; j++ {
			want := 0.0
			if i == j {
				want = 2 * mu
			}
			assert.True(t, near(C.At(i, j), want, 1e-9))
		}
	}
}

func TestPlaneStressShearEqualsPlaneStrainShear(t *testing.T) {
	ps, _ := NewElasIsot(70e9, 0.33)
	ps.PlaneStress = true
	pe, _ := NewElasIsot(70e9, 0.33)
	cps, _ := ps.C(2)
	cpe, _ := pe.C(2)
	// the shear entry is 2*mu in both reductions
	assert.True(t, near(cps.At(2, 2), cpe.At(2, 2), 1e-3))
	// but the axial entries differ
	assert.False(t, near(cps.At(0, 0), cpe.At(0, 0), 1))
}

func TestThermalValidation(t *testing.T) {
	_, err := NewThermal(0, 1)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
	_, err = NewThermal(1, -1)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
	th, err := NewThermal(50, 450)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, th.K)
}

func TestPhaseFieldCoefs(t *testing.T) {
	elas, _ := NewElasIsot(210, 0.3)
	_, err := NewPhaseField(elas, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
	pf, err := NewPhaseField(elas, 2.7, 0.015)
	assert.NoError(t, err)

	assert.True(t, near(pf.Degradation(0), 1, 1e-15))
	assert.True(t, near(pf.Degradation(1), 0, 1e-15))
	assert.True(t, near(pf.Degradation(0.5), 0.25, 1e-15))

	h := 10.0
	assert.True(t, near(pf.ReactionCoef(h), 2.7/0.015+20, 1e-9))
	assert.True(t, near(pf.DiffusionCoef(), 2.7*0.015, 1e-12))
	assert.True(t, near(pf.SourceCoef(h), 20, 1e-12))
}
