package sim

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesh"
	"github.com/clavel/gofea/utils"
)

// Displacement is the linear elastic problem on a 2D or 3D mesh, with
// dim DOFs per node numbered node*dim+component.
type Displacement struct {
	msh   *mesh.Mesh
	mat   *materials.ElasIsot
	fixed map[int]float64
	force []float64
}

func NewDisplacement(msh *mesh.Mesh, m *materials.ElasIsot) (*Displacement, error) {
	if d := msh.Dim(); d != 2 && d != 3 {
		return nil, fmt.Errorf("%w: elasticity needs a 2D or 3D mesh, have %dD", mesh.ErrDimensionMismatch, d)
	}
	return &Displacement{
		msh:   msh,
		mat:   m,
		fixed: map[int]float64{},
		force: make([]float64, msh.DOFCount(msh.Dim())),
	}, nil
}

func (s *Displacement) dof(node, comp int) (int, error) {
	dim := s.msh.Dim()
	if comp < 0 || comp >= dim {
		return 0, fmt.Errorf("%w: component %d of %d", ErrBadDOF, comp, dim)
	}
	d := node*dim + comp
	if d < 0 || d >= len(s.force) {
		return 0, fmt.Errorf("%w: node %d", ErrBadDOF, node)
	}
	return d, nil
}

// Fix prescribes one displacement component on a node set.
func (s *Displacement) Fix(nodes []int, comp int, value float64) error {
	for _, n := range nodes {
		d, err := s.dof(n, comp)
		if err != nil {
			return err
		}
		s.fixed[d] = value
	}
	return nil
}

// Clamp fixes every component of the given nodes to zero.
func (s *Displacement) Clamp(nodes []int) error {
	for comp := 0; comp < s.msh.Dim(); comp++ {
		if err := s.Fix(nodes, comp, 0); err != nil {
			return err
		}
	}
	return nil
}

// AddNodalForce spreads a total force evenly over the nodes, on one
// component.
func (s *Displacement) AddNodalForce(nodes []int, comp int, total float64) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: empty node set", ErrBadDOF)
	}
	per := total / float64(len(nodes))
	for _, n := range nodes {
		d, err := s.dof(n, comp)
		if err != nil {
			return err
		}
		s.force[d] += per
	}
	return nil
}

// AddLineLoad integrates a force density (per unit length) over the
// boundary elements whose nodes all belong to the given set, using the
// boundary group's shape functions. The density is consistent with the
// nodal work, quadratic boundary elements get their proper 1/6-4/6
// spread.
func (s *Displacement) AddLineLoad(nodes []int, comp int, density float64) error {
	var (
		dim = s.msh.Dim()
		g   = s.msh.Group(dim - 1)
	)
	if g == nil {
		return fmt.Errorf("%w: dimension %d", ErrMissingGroup, dim-1)
	}
	elems := g.Elements(nodes, true)
	if len(elems) == 0 {
		return fmt.Errorf("%w: no boundary elements inside the node set", ErrMissingGroup)
	}
	S, err := g.SourcePart(elements.Mass)
	if err != nil {
		return err
	}
	for _, e := range elems {
		row := g.Connect()[e]
		for p := 0; p < S.Np; p++ {
			for i, node := range row {
				d, err := s.dof(node, comp)
				if err != nil {
					return err
				}
				s.force[d] += density * S.At(e, p, i, 0)
			}
		}
	}
	return nil
}

// constitutive returns C in Kelvin-Mandel form, thickness-scaled for
// plane problems.
func (s *Displacement) constitutive() (utils.Matrix, error) {
	C, err := s.mat.C(s.msh.Dim())
	if err != nil {
		return utils.Matrix{}, err
	}
	if s.msh.Dim() == 2 && s.mat.Thickness != 1 {
		C = C.Copy().Scale(s.mat.Thickness)
	}
	return C, nil
}

// ElementStiffness returns the per-element stiffness blocks
// (e,1,nPe*dim,nPe*dim), the quadrature sum of L*C*B.
func (s *Displacement) ElementStiffness() (utils.Tensor4, error) {
	C, err := s.constitutive()
	if err != nil {
		return utils.Tensor4{}, err
	}
	return s.ElementStiffnessWith(func(e, p int) utils.Matrix { return C })
}

// ElementStiffnessWith is the heterogeneous form: cOf supplies the
// constitutive tensor per element and quadrature point of the
// stiffness rule, so damage-degraded or field-dependent laws reuse the
// cached geometric factors.
func (s *Displacement) ElementStiffnessWith(cOf func(e, p int) utils.Matrix) (utils.Tensor4, error) {
	B, err := s.msh.StrainDisplacement(elements.Stiffness)
	if err != nil {
		return utils.Tensor4{}, err
	}
	L, err := s.msh.LeftStiffness(elements.Stiffness)
	if err != nil {
		return utils.Tensor4{}, err
	}
	ke := utils.NewTensor4(B.Ne, 1, B.Nj, B.Nj)
	for e := 0; e < B.Ne; e++ {
		acc := ke.Block(e, 0)
		for p := 0; p < B.Np; p++ {
			acc.Add(L.Block(e, p).Mul(cOf(e, p)).Mul(B.Block(e, p)))
		}
	}
	return ke, nil
}

// Stiffness assembles the global sparse stiffness matrix.
func (s *Displacement) Stiffness() (*sparse.CSR, error) {
	ke, err := s.ElementStiffness()
	if err != nil {
		return nil, err
	}
	rows, cols := s.msh.VectorScatter()
	return assemble(len(s.force), rows, cols, ke.Data), nil
}

// StiffnessWith assembles the global matrix from a per-point
// constitutive law.
func (s *Displacement) StiffnessWith(cOf func(e, p int) utils.Matrix) (*sparse.CSR, error) {
	ke, err := s.ElementStiffnessWith(cOf)
	if err != nil {
		return nil, err
	}
	rows, cols := s.msh.VectorScatter()
	return assemble(len(s.force), rows, cols, ke.Data), nil
}

// Solve returns the full nodal displacement vector.
func (s *Displacement) Solve() ([]float64, error) {
	if len(s.fixed) == 0 {
		return nil, fmt.Errorf("%w: no displacement fixed", ErrSingularSystem)
	}
	K, err := s.Stiffness()
	if err != nil {
		return nil, err
	}
	return solveReduced(K, s.force, s.fixed)
}

// SolveWith solves under a per-point constitutive law.
func (s *Displacement) SolveWith(cOf func(e, p int) utils.Matrix) ([]float64, error) {
	if len(s.fixed) == 0 {
		return nil, fmt.Errorf("%w: no displacement fixed", ErrSingularSystem)
	}
	K, err := s.StiffnessWith(cOf)
	if err != nil {
		return nil, err
	}
	return solveReduced(K, s.force, s.fixed)
}

// StrainAtQuad evaluates the Kelvin-Mandel strain at every quadrature
// point of kind, (e,p,rows).
func (s *Displacement) StrainAtQuad(u []float64, kind elements.MatrixKind) (utils.Tensor3, error) {
	B, err := s.msh.StrainDisplacement(kind)
	if err != nil {
		return utils.Tensor3{}, err
	}
	var (
		ue  = s.msh.Localize(u, s.msh.Dim())
		out = utils.NewTensor3(B.Ne, B.Np, B.Ni)
	)
	for e := 0; e < B.Ne; e++ {
		for p := 0; p < B.Np; p++ {
			var (
				blk = B.Block(e, p)
				dst = out.Row(e, p)
			)
			for i := 0; i < B.Ni; i++ {
				for j := 0; j < B.Nj; j++ {
					dst[i] += blk.At(i, j) * ue.At(e, j)
				}
			}
		}
	}
	return out, nil
}

// StressAtQuad maps quadrature strains through the constitutive law.
// The thickness scaling is not applied: stresses are physical.
func (s *Displacement) StressAtQuad(eps utils.Tensor3) (utils.Tensor3, error) {
	C, err := s.mat.C(s.msh.Dim())
	if err != nil {
		return utils.Tensor3{}, err
	}
	out := utils.NewTensor3(eps.Ne, eps.Np, eps.Ni)
	for e := 0; e < eps.Ne; e++ {
		for p := 0; p < eps.Np; p++ {
			var (
				src = eps.Row(e, p)
				dst = out.Row(e, p)
			)
			for i := 0; i < eps.Ni; i++ {
				for j := 0; j < eps.Ni; j++ {
					dst[i] += C.At(i, j) * src[j]
				}
			}
		}
	}
	return out, nil
}

// StrainEnergyDensity returns 0.5*eps'*C*eps per quadrature point
// (e,p). The Kelvin-Mandel form makes the plain dot product the
// physical energy.
func (s *Displacement) StrainEnergyDensity(eps utils.Tensor3) (utils.Matrix, error) {
	sig, err := s.StressAtQuad(eps)
	if err != nil {
		return utils.Matrix{}, err
	}
	psi := utils.NewMatrix(eps.Ne, eps.Np)
	for e := 0; e < eps.Ne; e++ {
		for p := 0; p < eps.Np; p++ {
			var (
				a, b = eps.Row(e, p), sig.Row(e, p)
				sum  float64
			)
			for i := range a {
				sum += a[i] * b[i]
			}
			psi.Set(e, p, 0.5*sum)
		}
	}
	return psi, nil
}
