// Package mesh owns element groups, the reference-to-physical mapping
// evaluated at quadrature points, the elemental operator tensors built
// from it, and the global DOF indexing used to scatter them into sparse
// systems.
package mesh

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/james-bowman/sparse"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/utils"
)

var (
	ErrDegenerateElement  = errors.New("degenerate or inverted element: non-positive jacobian")
	ErrAmbiguousPrincipal = errors.New("ambiguous principal element group")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
)

// ElementGroup is the set of all mesh elements sharing one topology.
// It is immutable once constructed: geometry changes require a new
// group, never mutation, so the per-kind caches stay valid for the
// group lifetime.
type ElementGroup struct {
	etype   elements.ElemType
	connect [][]int // [Ne][nPe] global node indices
	elemIDs []int   // original element tags, remapped to 0..Ne-1 internally
	nodeIDs []int   // sorted global node indices used by this group

	coordGlob utils.Matrix // [NnGlob][3] full mesh coordinate table
	coord     utils.Matrix // [Nn][3] this group's node coordinates

	cache [elements.NumKinds]kindCache
}

// kindCache holds every quantity derived from one quadrature kind.
// Slots are fixed (one per MatrixKind) and populated lazily under
// sync.Once, so concurrent readers never duplicate work or race.
type kindCache struct {
	gauss     *elements.Gauss
	gaussOnce sync.Once
	gaussErr  error

	refOnce sync.Once
	refErr  error
	nPg     utils.Matrix   // [nPg][nPe] shape values at quadrature points
	dNpg    []utils.Matrix // [nPg] of [refDim][nPe] natural gradients

	mapOnce sync.Once
	mapErr  error
	f       utils.Tensor4 // (e,p,dim,dim) jacobian matrix of the mapping
	invF    utils.Tensor4 // (e,p,dim,dim)
	jac     utils.Matrix  // [Ne][nPg] det(F), strictly positive
	dNdx    utils.Tensor4 // (e,p,dim,nPe) physical-space gradients

	bOnce sync.Once
	bErr  error
	b     utils.Tensor4 // (e,p,strainRows,nPe*dim) Kelvin-Mandel strain operator

	leftOnce sync.Once
	leftErr  error
	left     utils.Tensor4 // (e,p,nPe*dim,strainRows) jac*weight*B'

	reactOnce sync.Once
	reactErr  error
	reaction  utils.Tensor4 // (e,p,nPe,nPe) jac*weight*N'N

	diffOnce sync.Once
	diffErr  error
	diffuse  utils.Tensor4 // (e,p,nPe,nPe) jac*weight*dN'dN

	srcOnce sync.Once
	srcErr  error
	source  utils.Tensor4 // (e,p,nPe,1) jac*weight*N'
}

// NewElementGroup builds a group from raw mesher output: per-topology
// connectivity into the global coordinate table, plus the original
// element tags (which may be non-contiguous; they are kept only as
// labels).
func NewElementGroup(et elements.ElemType, connect [][]int, elemIDs []int, coordGlob utils.Matrix) (*ElementGroup, error) {
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %v", elements.ErrUnsupportedTopology, et)
	}
	var (
		nnGlob, nc = coordGlob.Dims()
		nPe        = et.NPE()
	)
	if nc != 3 {
		return nil, fmt.Errorf("%w: coordinate table must be Nn x 3, got Nn x %d", ErrDimensionMismatch, nc)
	}
	if elemIDs != nil && len(elemIDs) != len(connect) {
		return nil, fmt.Errorf("%w: %d element tags for %d elements", ErrDimensionMismatch, len(elemIDs), len(connect))
	}
	seen := make(map[int]struct{})
	for e, row := range connect {
		if len(row) != nPe {
			return nil, fmt.Errorf("%w: element %d has %d nodes, %v needs %d", ErrDimensionMismatch, e, len(row), et, nPe)
		}
		for _, n := range row {
			if n < 0 || n >= nnGlob {
				return nil, fmt.Errorf("node index %d out of range [0,%d)", n, nnGlob)
			}
			seen[n] = struct{}{}
		}
	}
	nodeIDs := make([]int, 0, len(seen))
	for n := range seen {
		nodeIDs = append(nodeIDs, n)
	}
	sort.Ints(nodeIDs)

	coord := utils.NewMatrix(len(nodeIDs), 3)
	for i, n := range nodeIDs {
		for j := 0; j < 3; j++ {
			coord.Set(i, j, coordGlob.At(n, j))
		}
	}
	if elemIDs == nil {
		elemIDs = make([]int, len(connect))
		for e := range elemIDs {
			elemIDs[e] = e
		}
	}
	g := &ElementGroup{
		etype:     et,
		connect:   connect,
		elemIDs:   elemIDs,
		nodeIDs:   nodeIDs,
		coordGlob: coordGlob,
		coord:     coord,
	}
	return g, nil
}

func (g *ElementGroup) Type() elements.ElemType { return g.etype }
func (g *ElementGroup) Ne() int                 { return len(g.connect) }
func (g *ElementGroup) Nn() int                 { return len(g.nodeIDs) }
func (g *ElementGroup) NPE() int                { return g.etype.NPE() }
func (g *ElementGroup) Dim() int                { return g.etype.Dim() }

// Connect returns the connectivity table. Callers must not modify it.
func (g *ElementGroup) Connect() [][]int { return g.connect }

// ElemIDs returns the original element tags. Callers must not modify it.
func (g *ElementGroup) ElemIDs() []int { return g.elemIDs }

// NodeIDs returns the sorted global node indices this group touches.
func (g *ElementGroup) NodeIDs() []int { return g.nodeIDs }

// Coords returns this group's node coordinates ([Nn][3], rows aligned
// with NodeIDs). GlobalCoords is the full mesh table.
func (g *ElementGroup) Coords() utils.Matrix       { return g.coord }
func (g *ElementGroup) GlobalCoords() utils.Matrix { return g.coordGlob }

// Gauss returns the cached quadrature rule for kind.
func (g *ElementGroup) Gauss(kind elements.MatrixKind) (*elements.Gauss, error) {
	c, err := g.kind(kind)
	if err != nil {
		return nil, err
	}
	c.gaussOnce.Do(func() {
		c.gauss, c.gaussErr = elements.NewGauss(g.etype, kind)
	})
	return c.gauss, c.gaussErr
}

func (g *ElementGroup) kind(kind elements.MatrixKind) (*kindCache, error) {
	if kind < 0 || int(kind) >= elements.NumKinds {
		return nil, fmt.Errorf("%w: kind %d", elements.ErrNoQuadrature, int(kind))
	}
	return &g.cache[kind], nil
}

// AssemblyDOFs returns the [Ne][nPe*dofsPerNode] matrix mapping local
// element DOF slots to global DOF numbers, with the convention
// global = node*dofsPerNode + component.
func (g *ElementGroup) AssemblyDOFs(dofsPerNode int) [][]int {
	var (
		nPe = g.NPE()
		asm = make([][]int, g.Ne())
	)
	for e, row := range g.connect {
		asm[e] = make([]int, nPe*dofsPerNode)
		for i, n := range row {
			for d := 0; d < dofsPerNode; d++ {
				asm[e][i*dofsPerNode+d] = n*dofsPerNode + d
			}
		}
	}
	return asm
}

// NodeElementIncidence builds the sparse boolean matrix with a 1 at
// (node, element) when the element uses the node, sized on the global
// node table.
func (g *ElementGroup) NodeElementIncidence() *sparse.CSR {
	var (
		nnGlob, _ = g.coordGlob.Dims()
		dok       = sparse.NewDOK(nnGlob, g.Ne())
	)
	for e, row := range g.connect {
		for _, n := range row {
			dok.Set(n, e, 1)
		}
	}
	return dok.ToCSR()
}

// Elements returns the indices of elements touching the given nodes.
// With exclusive set, an element qualifies only when every one of its
// nodes is in the query set.
func (g *ElementGroup) Elements(nodes []int, exclusive bool) (elems []int) {
	var (
		set   = utils.Index(nodes).ToSet()
		taken = make(map[int]struct{})
	)
	for e, row := range g.connect {
		var hit, all = false, true
		for _, n := range row {
			if _, ok := set[n]; ok {
				hit = true
			} else {
				all = false
			}
		}
		if hit && (!exclusive || all) {
			if _, dup := taken[e]; !dup {
				taken[e] = struct{}{}
				elems = append(elems, e)
			}
		}
	}
	return
}

// Localize gathers a global DOF vector onto elements, one row per
// element of nPe*dofsPerNode entries.
func (g *ElementGroup) Localize(sol []float64, dofsPerNode int) utils.Matrix {
	var (
		asm = g.AssemblyDOFs(dofsPerNode)
		R   = utils.NewMatrix(g.Ne(), g.NPE()*dofsPerNode)
	)
	for e, row := range asm {
		for k, dof := range row {
			R.Set(e, k, sol[dof])
		}
	}
	return R
}
