package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/mesh"
	"github.com/clavel/gofea/utils"
)

// Beam is a 2-node Euler-Bernoulli frame in the xy plane: three DOFs
// per node (axial, deflection, rotation), closed-form element
// stiffness, dense solve. Frame systems are small, sparsity buys
// nothing here.
type Beam struct {
	msh     *mesh.Mesh
	E, A, I float64
	fixed   map[int]float64
	force   []float64
}

const beamDOF = 3

func NewBeam(msh *mesh.Mesh, e, a, i float64) (*Beam, error) {
	if msh.Type() != elements.Seg2 {
		return nil, fmt.Errorf("%w: frames need a Seg2 mesh, have %v", mesh.ErrDimensionMismatch, msh.Type())
	}
	if e <= 0 || a <= 0 || i <= 0 {
		return nil, fmt.Errorf("beam needs positive E, A, I, got %g %g %g", e, a, i)
	}
	return &Beam{
		msh:   msh,
		E:     e,
		A:     a,
		I:     i,
		fixed: map[int]float64{},
		force: make([]float64, msh.DOFCount(beamDOF)),
	}, nil
}

func (s *Beam) dof(node, comp int) (int, error) {
	if comp < 0 || comp >= beamDOF {
		return 0, fmt.Errorf("%w: component %d", ErrBadDOF, comp)
	}
	d := node*beamDOF + comp
	if d < 0 || d >= len(s.force) {
		return 0, fmt.Errorf("%w: node %d", ErrBadDOF, node)
	}
	return d, nil
}

// Fix prescribes one DOF component (0 axial, 1 deflection, 2 rotation)
// on a node set.
func (s *Beam) Fix(nodes []int, comp int, value float64) error {
	for _, n := range nodes {
		d, err := s.dof(n, comp)
		if err != nil {
			return err
		}
		s.fixed[d] = value
	}
	return nil
}

// Clamp fixes all three components of the given nodes to zero.
func (s *Beam) Clamp(nodes []int) error {
	for comp := 0; comp < beamDOF; comp++ {
		if err := s.Fix(nodes, comp, 0); err != nil {
			return err
		}
	}
	return nil
}

// AddNodalForce applies a concentrated load or moment on one node.
func (s *Beam) AddNodalForce(node, comp int, value float64) error {
	d, err := s.dof(node, comp)
	if err != nil {
		return err
	}
	s.force[d] += value
	return nil
}

// elementStiffness returns the 6x6 global-frame stiffness of element e.
func (s *Beam) elementStiffness(e int) utils.Matrix {
	var (
		conn   = s.msh.Principal().Connect()[e]
		coords = s.msh.Principal().GlobalCoords()
		n1, n2 = conn[0], conn[1]
	)
	var (
		dx = coords.At(n2, 0) - coords.At(n1, 0)
		dy = coords.At(n2, 1) - coords.At(n1, 1)
		l  = math.Hypot(dx, dy)
		c  = dx / l
		sn = dy / l

		ka = s.E * s.A / l
		kb = s.E * s.I / (l * l * l)
	)
	// local frame: axial at 0/3, bending on (v1,t1,v2,t2)
	k := utils.NewMatrix(6, 6)
	k.Set(0, 0, ka).Set(0, 3, -ka).Set(3, 0, -ka).Set(3, 3, ka)
	var (
		bend = [4][4]float64{
			{12, 6 * l, -12, 6 * l},
			{6 * l, 4 * l * l, -6 * l, 2 * l * l},
			{-12, -6 * l, 12, -6 * l},
			{6 * l, 2 * l * l, -6 * l, 4 * l * l},
		}
		bmap = [4]int{1, 2, 4, 5}
	)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			k.Set(bmap[i], bmap[j], kb*bend[i][j])
		}
	}

	// rotate to the global frame, block-diagonal per node
	T := utils.NewMatrix(6, 6)
	for n := 0; n < 2; n++ {
		o := 3 * n
		T.Set(o, o, c).Set(o, o+1, sn)
		T.Set(o+1, o, -sn).Set(o+1, o+1, c)
		T.Set(o+2, o+2, 1)
	}
	return T.Transpose().Mul(k).Mul(T)
}

// Stiffness assembles the dense global frame stiffness.
func (s *Beam) Stiffness() utils.Matrix {
	var (
		n   = len(s.force)
		K   = utils.NewMatrix(n, n)
		asm = s.msh.Principal().AssemblyDOFs(beamDOF)
	)
	for e := 0; e < s.msh.Ne(); e++ {
		dofs := utils.Index(asm[e])
		s.elementStiffness(e).ScatterAdd(K, dofs, dofs)
	}
	return K
}

// Solve returns the nodal (u, v, theta) vector.
func (s *Beam) Solve() ([]float64, error) {
	if len(s.fixed) == 0 {
		return nil, fmt.Errorf("%w: no support fixed", ErrSingularSystem)
	}
	var (
		K    = s.Stiffness()
		n    = len(s.force)
		pos  = make([]int, n)
		free []int
	)
	for i := 0; i < n; i++ {
		if _, ok := s.fixed[i]; ok {
			pos[i] = -1
		} else {
			pos[i] = len(free)
			free = append(free, i)
		}
	}
	var (
		nf  = len(free)
		kff = mat.NewDense(nf, nf, nil)
		b   = utils.NewVector(nf)
		sol = utils.NewVector(nf)
	)
	for i, di := range free {
		v := s.force[di]
		for dj, val := range s.fixed {
			v -= K.At(di, dj) * val
		}
		b.Set(i, v)
		for j, dj := range free {
			kff.Set(i, j, K.At(di, dj))
		}
	}
	if err := sol.V.SolveVec(kff, b.V); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	out := make([]float64, n)
	for d, v := range s.fixed {
		out[d] = v
	}
	for i, d := range free {
		out[d] = sol.AtVec(i)
	}
	return out, nil
}
