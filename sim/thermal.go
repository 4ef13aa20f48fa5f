package sim

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesh"
)

// Thermal is steady-state heat conduction, one temperature DOF per
// node.
type Thermal struct {
	msh    *mesh.Mesh
	mat    *materials.Thermal
	fixed  map[int]float64
	source []float64
}

func NewThermal(msh *mesh.Mesh, m *materials.Thermal) (*Thermal, error) {
	if msh.Dim() < 1 {
		return nil, fmt.Errorf("%w: conduction needs a 1D, 2D or 3D mesh", mesh.ErrDimensionMismatch)
	}
	return &Thermal{
		msh:    msh,
		mat:    m,
		fixed:  map[int]float64{},
		source: make([]float64, msh.DOFCount(1)),
	}, nil
}

// FixTemperature prescribes the temperature on a node set.
func (s *Thermal) FixTemperature(nodes []int, value float64) error {
	for _, n := range nodes {
		if n < 0 || n >= len(s.source) {
			return fmt.Errorf("%w: node %d", ErrBadDOF, n)
		}
		s.fixed[n] = value
	}
	return nil
}

// AddVolumeSource integrates a uniform heat source density over the
// principal group.
func (s *Thermal) AddVolumeSource(density float64) error {
	S, err := s.msh.SourcePart(elements.Mass)
	if err != nil {
		return err
	}
	conn := s.msh.Principal().Connect()
	for e := 0; e < S.Ne; e++ {
		for p := 0; p < S.Np; p++ {
			for i, node := range conn[e] {
				s.source[node] += density * S.At(e, p, i, 0)
			}
		}
	}
	return nil
}

// AddNodalFlux adds a concentrated heat input split over the nodes.
func (s *Thermal) AddNodalFlux(nodes []int, total float64) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: empty node set", ErrBadDOF)
	}
	per := total / float64(len(nodes))
	for _, n := range nodes {
		if n < 0 || n >= len(s.source) {
			return fmt.Errorf("%w: node %d", ErrBadDOF, n)
		}
		s.source[n] += per
	}
	return nil
}

// Conductivity assembles k * integral(dN'dN) as the global sparse
// conduction matrix.
func (s *Thermal) Conductivity() (*sparse.CSR, error) {
	D, err := s.msh.DiffusionPart(elements.Stiffness)
	if err != nil {
		return nil, err
	}
	var (
		summed     = D.SumPoints().Scale(s.mat.K)
		rows, cols = s.msh.ScalarScatter()
	)
	return assemble(len(s.source), rows, cols, summed.Data), nil
}

// Solve returns the nodal temperature field.
func (s *Thermal) Solve() ([]float64, error) {
	if len(s.fixed) == 0 {
		return nil, fmt.Errorf("%w: no temperature fixed", ErrSingularSystem)
	}
	K, err := s.Conductivity()
	if err != nil {
		return nil, err
	}
	return solveReduced(K, s.source, s.fixed)
}
