package sim

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesh"
	"github.com/clavel/gofea/utils"
)

// PhaseField runs the staggered damage half of a phase-field fracture
// computation: the elastic energy history drives a scalar
// reaction-diffusion problem for the damage d in [0,1].
type PhaseField struct {
	msh     *mesh.Mesh
	mat     *materials.PhaseField
	elastic *Displacement
	history utils.Matrix // (e,p) largest energy density seen so far
	damage  []float64    // nodal damage of the latest pass, nil before the first
}

func NewPhaseField(msh *mesh.Mesh, m *materials.PhaseField) (*PhaseField, error) {
	elastic, err := NewDisplacement(msh, m.Elas)
	if err != nil {
		return nil, err
	}
	gauss, err := msh.Principal().Gauss(elements.Mass)
	if err != nil {
		return nil, err
	}
	return &PhaseField{
		msh:     msh,
		mat:     m,
		elastic: elastic,
		history: utils.NewMatrix(msh.Ne(), gauss.NPG()),
	}, nil
}

// Elastic exposes the displacement problem for boundary conditions and
// solves.
func (s *PhaseField) Elastic() *Displacement { return s.elastic }

// History returns the (e,p) irreversibility field.
func (s *PhaseField) History() utils.Matrix { return s.history }

// Damage returns the nodal damage of the latest pass, nil before any.
func (s *PhaseField) Damage() []float64 { return s.damage }

// DegradedConstitutive returns the per-point law g(d)*C with the nodal
// damage interpolated to the stiffness quadrature points. With no
// damage yet it is the undamaged law.
func (s *PhaseField) DegradedConstitutive() (func(e, p int) utils.Matrix, error) {
	base, err := s.elastic.constitutive()
	if err != nil {
		return nil, err
	}
	if s.damage == nil {
		return func(e, p int) utils.Matrix { return base }, nil
	}
	N, err := s.msh.Principal().ShapeAtQuad(elements.Stiffness)
	if err != nil {
		return nil, err
	}
	var (
		loc     = s.msh.Localize(s.damage, 1)
		nPe     = s.msh.NPE()
		scratch = base.Copy()
	)
	return func(e, p int) utils.Matrix {
		var d float64
		for i := 0; i < nPe; i++ {
			d += N.At(p, i) * loc.At(e, i)
		}
		if d < 0 {
			d = 0
		} else if d > 1 {
			d = 1
		}
		var (
			g  = s.mat.Degradation(d)
			bd = base.Data()
			sd = scratch.Data()
		)
		for i, v := range bd {
			sd[i] = g * v
		}
		return scratch
	}, nil
}

// UpdateHistory raises the history field to the current elastic energy
// density wherever it grew; it never decreases, which is what makes
// damage irreversible.
func (s *PhaseField) UpdateHistory(u []float64) error {
	eps, err := s.elastic.StrainAtQuad(u, elements.Mass)
	if err != nil {
		return err
	}
	psi, err := s.elastic.StrainEnergyDensity(eps)
	if err != nil {
		return err
	}
	ne, np := s.history.Dims()
	for e := 0; e < ne; e++ {
		for p := 0; p < np; p++ {
			if v := psi.At(e, p); v > s.history.At(e, p) {
				s.history.Set(e, p, v)
			}
		}
	}
	return nil
}

// DamageSystem assembles the reaction-diffusion system for the damage
// field,
//
//	K_d = sum_p (Gc/l0 + 2H)*N'N + Gc*l0*dN'dN
//	f_d = sum_p 2H*N'
//
// with the history entering per element and point.
func (s *PhaseField) DamageSystem() (*sparse.CSR, []float64, error) {
	R, err := s.msh.ReactionPart(elements.Mass)
	if err != nil {
		return nil, nil, err
	}
	D, err := s.msh.DiffusionPart(elements.Mass)
	if err != nil {
		return nil, nil, err
	}
	S, err := s.msh.SourcePart(elements.Mass)
	if err != nil {
		return nil, nil, err
	}

	var (
		nPe  = s.msh.NPE()
		ke   = utils.NewTensor4(R.Ne, 1, nPe, nPe)
		f    = make([]float64, s.msh.DOFCount(1))
		conn = s.msh.Principal().Connect()
		kd   = s.mat.DiffusionCoef()
	)
	for e := 0; e < R.Ne; e++ {
		acc := ke.Block(e, 0)
		for p := 0; p < R.Np; p++ {
			var (
				h  = s.history.At(e, p)
				kr = s.mat.ReactionCoef(h)
				ks = s.mat.SourceCoef(h)
				rb = R.Block(e, p)
				db = D.Block(e, p)
			)
			for i := 0; i < nPe; i++ {
				for j := 0; j < nPe; j++ {
					acc.Set(i, j, acc.At(i, j)+kr*rb.At(i, j)+kd*db.At(i, j))
				}
				f[conn[e][i]] += ks * S.At(e, p, i, 0)
			}
		}
	}
	rows, cols := s.msh.ScalarScatter()
	return assemble(len(f), rows, cols, ke.Data), f, nil
}

// SolveDamage returns the nodal damage field. The reaction term makes
// the operator positive definite, no essential conditions are needed.
func (s *PhaseField) SolveDamage() ([]float64, error) {
	K, f, err := s.DamageSystem()
	if err != nil {
		return nil, err
	}
	d, err := solveReduced(K, f, map[int]float64{})
	if err != nil {
		return nil, err
	}
	for i, v := range d {
		if v < 0 {
			d[i] = 0
		} else if v > 1 {
			d[i] = 1
		}
	}
	return d, nil
}

// Step runs one staggered iteration: solve elasticity with the current
// damage degrading the stiffness, raise the history, solve damage and
// keep it for the next pass. Returns displacement then damage.
func (s *PhaseField) Step() (u, d []float64, err error) {
	cOf, err := s.DegradedConstitutive()
	if err != nil {
		return nil, nil, err
	}
	if u, err = s.elastic.SolveWith(cOf); err != nil {
		return nil, nil, fmt.Errorf("elastic pass: %w", err)
	}
	if err = s.UpdateHistory(u); err != nil {
		return nil, nil, err
	}
	if d, err = s.SolveDamage(); err != nil {
		return nil, nil, fmt.Errorf("damage pass: %w", err)
	}
	s.damage = d
	return u, d, nil
}
