// Package elements is the reference-element library: for every
// supported topology it supplies the closed-form shape functions, their
// derivatives in natural coordinates, the reference node layout and the
// quadrature rules. Everything here is a pure function of natural
// coordinates; no mesh state is involved.
package elements

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedTopology = errors.New("unsupported element topology")
	ErrNoQuadrature        = errors.New("quadrature scheme not found for this topology")
)

// ElemType enumerates the supported topologies. The node ordering per
// topology follows the gmsh convention the mesher emits; PRISM6 keeps
// the permuted wedge parametrization inherited from that convention.
type ElemType int

const (
	Point ElemType = iota
	Seg2
	Seg3
	Tri3
	Tri6
	Quad4
	Quad8
	Tetra4
	Hexa8
	Prism6
)

var elemInfo = map[ElemType]struct {
	name  string
	nPe   int
	dim   int
	order int
}{
	Point:  {"POINT", 1, 0, 0},
	Seg2:   {"SEG2", 2, 1, 1},
	Seg3:   {"SEG3", 3, 1, 2},
	Tri3:   {"TRI3", 3, 2, 1},
	Tri6:   {"TRI6", 6, 2, 2},
	Quad4:  {"QUAD4", 4, 2, 1},
	Quad8:  {"QUAD8", 8, 2, 2},
	Tetra4: {"TETRA4", 4, 3, 1},
	Hexa8:  {"HEXA8", 8, 3, 1},
	Prism6: {"PRISM6", 6, 3, 1},
}

func (et ElemType) String() string {
	if info, ok := elemInfo[et]; ok {
		return info.name
	}
	return fmt.Sprintf("ElemType(%d)", int(et))
}

// NPE is the number of nodes per element.
func (et ElemType) NPE() int { return elemInfo[et].nPe }

// Dim is the topological dimension of the reference element.
func (et ElemType) Dim() int { return elemInfo[et].dim }

// Order is the polynomial order of the interpolation.
func (et ElemType) Order() int { return elemInfo[et].order }

// Valid reports whether et names a supported topology.
func (et ElemType) Valid() bool {
	_, ok := elemInfo[et]
	return ok
}

// FromName resolves a topology by its mesh-file name, e.g. "TRI6".
func FromName(name string) (ElemType, error) {
	for et, info := range elemInfo {
		if info.name == name {
			return et, nil
		}
	}
	return Point, fmt.Errorf("%w: %q", ErrUnsupportedTopology, name)
}

// Types2D lists the plane topologies, Types3D the volume ones.
func Types2D() []ElemType { return []ElemType{Tri3, Tri6, Quad4, Quad8} }
func Types3D() []ElemType { return []ElemType{Tetra4, Hexa8, Prism6} }
