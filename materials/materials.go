// Package materials provides the constitutive side of the assembly:
// isotropic elasticity in Kelvin-Mandel form, scalar thermal
// properties, and the phase-field damage model coefficients.
package materials

import (
	"errors"
	"fmt"

	"github.com/clavel/gofea/utils"
)

var ErrInvalidMaterial = errors.New("invalid material parameter")

// ElasIsot is linear isotropic elasticity. In 2D the PlaneStress flag
// selects the plane-stress reduction; plane strain is the default.
type ElasIsot struct {
	E           float64 // Young's modulus
	Nu          float64 // Poisson's ratio
	Thickness   float64 // out-of-plane thickness, 2D only
	PlaneStress bool
}

// NewElasIsot validates the parameter ranges. Thickness defaults to 1.
func NewElasIsot(e, nu float64) (*ElasIsot, error) {
	if e <= 0 {
		return nil, fmt.Errorf("%w: E=%g must be positive", ErrInvalidMaterial, e)
	}
	if nu <= -1 || nu >= 0.5 {
		return nil, fmt.Errorf("%w: nu=%g must lie in (-1, 0.5)", ErrInvalidMaterial, nu)
	}
	return &ElasIsot{E: e, Nu: nu, Thickness: 1}, nil
}

// Lame returns the Lame pair (lambda, mu).
func (m *ElasIsot) Lame() (lambda, mu float64) {
	lambda = m.E * m.Nu / ((1 + m.Nu) * (1 - 2*m.Nu))
	mu = m.E / (2 * (1 + m.Nu))
	return
}

// C returns the constitutive matrix in Kelvin-Mandel form for the given
// spatial dimension: 3x3 in 2D, 6x6 in 3D. The shear diagonal carries
// 2*mu, matching the sqrt(2)-scaled shear rows of the strain operator
// so that eps'*C*eps is the physical strain energy density.
func (m *ElasIsot) C(dim int) (utils.Matrix, error) {
	lambda, mu := m.Lame()
	switch dim {
	case 2:
		C := utils.NewMatrix(3, 3)
		if m.PlaneStress {
			f := m.E / (1 - m.Nu*m.Nu)
			C.Set(0, 0, f)
			C.Set(1, 1, f)
			C.Set(0, 1, f*m.Nu)
			C.Set(1, 0, f*m.Nu)
			C.Set(2, 2, 2*mu)
		} else {
			C.Set(0, 0, lambda+2*mu)
			C.Set(1, 1, lambda+2*mu)
			C.Set(0, 1, lambda)
			C.Set(1, 0, lambda)
			C.Set(2, 2, 2*mu)
		}
		return C, nil
	case 3:
		C := utils.NewMatrix(6, 6)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if i == j {
					C.Set(i, j, lambda+2*mu)
				} else {
					C.Set(i, j, lambda)
				}
			}
			C.Set(3+i, 3+i, 2*mu)
		}
		return C, nil
	}
	return utils.Matrix{}, fmt.Errorf("%w: elasticity needs dim 2 or 3, got %d", ErrInvalidMaterial, dim)
}

// Thermal carries the scalar conduction properties.
type Thermal struct {
	K float64 // conductivity
	C float64 // volumetric heat capacity
}

func NewThermal(k, c float64) (*Thermal, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: conductivity k=%g must be positive", ErrInvalidMaterial, k)
	}
	if c < 0 {
		return nil, fmt.Errorf("%w: heat capacity c=%g must be non-negative", ErrInvalidMaterial, c)
	}
	return &Thermal{K: k, C: c}, nil
}

// PhaseField couples a damage field to elasticity through the quadratic
// degradation g(d) = (1-d)^2 and the AT2 crack density, giving the
// reaction and diffusion coefficients of the damage problem.
type PhaseField struct {
	Elas *ElasIsot
	Gc   float64 // critical energy release rate
	L0   float64 // regularization length
}

func NewPhaseField(elas *ElasIsot, gc, l0 float64) (*PhaseField, error) {
	if elas == nil {
		return nil, fmt.Errorf("%w: phase field needs an elastic law", ErrInvalidMaterial)
	}
	if gc <= 0 || l0 <= 0 {
		return nil, fmt.Errorf("%w: Gc=%g and l0=%g must be positive", ErrInvalidMaterial, gc, l0)
	}
	return &PhaseField{Elas: elas, Gc: gc, L0: l0}, nil
}

// Degradation evaluates g(d) = (1-d)^2.
func (m *PhaseField) Degradation(d float64) float64 {
	r := 1 - d
	return r * r
}

// ReactionCoef returns Gc/l0 + 2H for the history field value H at a
// quadrature point.
func (m *PhaseField) ReactionCoef(h float64) float64 {
	return m.Gc/m.L0 + 2*h
}

// DiffusionCoef returns Gc*l0.
func (m *PhaseField) DiffusionCoef() float64 {
	return m.Gc * m.L0
}

// SourceCoef returns 2H, the driving term of the damage problem.
func (m *PhaseField) SourceCoef(h float64) float64 {
	return 2 * h
}
