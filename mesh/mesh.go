package mesh

import (
	"fmt"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/geom"
	"github.com/clavel/gofea/utils"
)

// Mesh aggregates one element group per topological dimension present.
// The group matching the mesh's own dimension is the principal group;
// everything dimension-implicit (DOF counts, selection, operators)
// delegates to it.
type Mesh struct {
	dim    int
	byDim  map[int]*ElementGroup
	groups []*ElementGroup
}

// NewMesh builds a mesh from its groups. Two groups sharing the mesh's
// dimension leave the principal element undefined and are rejected.
func NewMesh(groups ...*ElementGroup) (*Mesh, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("a mesh needs at least one element group")
	}
	var (
		dim   = 0
		byDim = map[int]*ElementGroup{}
	)
	for _, g := range groups {
		if g.Dim() > dim {
			dim = g.Dim()
		}
	}
	for _, g := range groups {
		if prev, ok := byDim[g.Dim()]; ok {
			if g.Dim() == dim {
				return nil, fmt.Errorf("%w: %v and %v both have dimension %d",
					ErrAmbiguousPrincipal, prev.Type(), g.Type(), dim)
			}
			continue // lower-dimension duplicate: first one wins
		}
		byDim[g.Dim()] = g
	}
	return &Mesh{dim: dim, byDim: byDim, groups: groups}, nil
}

// Principal returns the group of the mesh's nominal dimension.
func (m *Mesh) Principal() *ElementGroup { return m.byDim[m.dim] }

// Group returns the group of the given dimension, or nil.
func (m *Mesh) Group(dim int) *ElementGroup { return m.byDim[dim] }

// Groups returns every group the mesh was built from.
func (m *Mesh) Groups() []*ElementGroup { return m.groups }

func (m *Mesh) Dim() int                 { return m.dim }
func (m *Mesh) Ne() int                  { return m.Principal().Ne() }
func (m *Mesh) Nn() int                  { nn, _ := m.Principal().coordGlob.Dims(); return nn }
func (m *Mesh) NPE() int                 { return m.Principal().NPE() }
func (m *Mesh) Type() elements.ElemType  { return m.Principal().Type() }
func (m *Mesh) Coords() utils.Matrix     { return m.Principal().GlobalCoords() }
func (m *Mesh) DOFCount(perNode int) int { return m.Nn() * perNode }

func (m *Mesh) Summary() string {
	return fmt.Sprintf("%v mesh: Ne=%d Nn=%d dofs=%d",
		m.Type(), m.Ne(), m.Nn(), m.Nn()*m.dim)
}

// Node selection delegates to the principal group.

func (m *Mesh) NodesWhere(pred func(x, y, z float64) bool) []int {
	return m.Principal().NodesWhere(pred)
}
func (m *Mesh) NodesAtPoint(p geom.Point) []int   { return m.Principal().NodesAtPoint(p) }
func (m *Mesh) NodesOnLine(l geom.Line) []int     { return m.Principal().NodesOnLine(l) }
func (m *Mesh) NodesInDomain(d geom.Domain) []int { return m.Principal().NodesInDomain(d) }
func (m *Mesh) NodesInCircle(c geom.Circle) []int { return m.Principal().NodesInCircle(c) }

// VectorScatter returns the flattened row and column index arrays that
// scatter the Ne x (nPe*dim) x (nPe*dim) elemental stiffness blocks
// into the global vector-problem sparse matrix. Entry k of both arrays
// addresses the k-th entry of the elemental tensor flattened e-major,
// then row, then column.
func (m *Mesh) VectorScatter() (rows, cols utils.Index) {
	return scatterIndices(m.Principal().AssemblyDOFs(m.dim))
}

// ScalarScatter is the 1-DOF-per-node analogue, built on raw
// connectivity.
func (m *Mesh) ScalarScatter() (rows, cols utils.Index) {
	return scatterIndices(m.Principal().AssemblyDOFs(1))
}

func scatterIndices(asm [][]int) (rows, cols utils.Index) {
	if len(asm) == 0 {
		return
	}
	var (
		n  = len(asm[0])
		sz = len(asm) * n * n
	)
	rows = make(utils.Index, 0, sz)
	cols = make(utils.Index, 0, sz)
	for _, dofs := range asm {
		for _, ri := range dofs {
			for _, ci := range dofs {
				rows = append(rows, ri)
				cols = append(cols, ci)
			}
		}
	}
	return
}

// Operator retrieval, delegated to the principal group.

func (m *Mesh) Jacobian(kind elements.MatrixKind) (utils.Matrix, error) {
	return m.Principal().Jacobian(kind)
}

func (m *Mesh) StrainDisplacement(kind elements.MatrixKind) (utils.Tensor4, error) {
	return m.Principal().StrainDisplacement(kind)
}

func (m *Mesh) LeftStiffness(kind elements.MatrixKind) (utils.Tensor4, error) {
	return m.Principal().LeftStiffness(kind)
}

func (m *Mesh) ReactionPart(kind elements.MatrixKind) (utils.Tensor4, error) {
	return m.Principal().ReactionPart(kind)
}

func (m *Mesh) DiffusionPart(kind elements.MatrixKind) (utils.Tensor4, error) {
	return m.Principal().DiffusionPart(kind)
}

func (m *Mesh) SourcePart(kind elements.MatrixKind) (utils.Tensor4, error) {
	return m.Principal().SourcePart(kind)
}

// Localize gathers a global solution vector onto principal elements.
func (m *Mesh) Localize(sol []float64, dofsPerNode int) utils.Matrix {
	return m.Principal().Localize(sol, dofsPerNode)
}

// Area integrates jac*weight over a 2D principal group; Volume does the
// same for 3D. Both are the standard verification of the mapping.
func (m *Mesh) Area(kind elements.MatrixKind) (float64, error) {
	if m.dim != 2 {
		return 0, fmt.Errorf("%w: area of a %dD mesh", ErrDimensionMismatch, m.dim)
	}
	return m.measure(kind)
}

func (m *Mesh) Volume(kind elements.MatrixKind) (float64, error) {
	if m.dim != 3 {
		return 0, fmt.Errorf("%w: volume of a %dD mesh", ErrDimensionMismatch, m.dim)
	}
	return m.measure(kind)
}

func (m *Mesh) measure(kind elements.MatrixKind) (float64, error) {
	var (
		g        = m.Principal()
		jac, err = g.Jacobian(kind)
	)
	if err != nil {
		return 0, err
	}
	gauss, err := g.Gauss(kind)
	if err != nil {
		return 0, err
	}
	var total float64
	for e := 0; e < g.Ne(); e++ {
		for p := 0; p < gauss.NPG(); p++ { // sum over e and p
			total += jac.At(e, p) * gauss.Weights[p]
		}
	}
	return total, nil
}
