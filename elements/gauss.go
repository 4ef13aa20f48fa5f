package elements

import (
	"fmt"
	"math"
)

// MatrixKind selects the quadrature exactness a rule must provide.
// Stiffness rules integrate products of first derivatives, degree
// 2*(order-1); Mass rules integrate N_i*N_j products, degree 2*order.
type MatrixKind int

const (
	Stiffness MatrixKind = iota
	Mass

	NumKinds = 2
)

func (k MatrixKind) String() string {
	switch k {
	case Stiffness:
		return "stiffness"
	case Mass:
		return "mass"
	}
	return fmt.Sprintf("MatrixKind(%d)", int(k))
}

// Gauss is a fixed, ordered quadrature rule for one (topology, kind)
// pair. The ordering is part of the contract: downstream caches key
// their arrays on it.
type Gauss struct {
	Etype   ElemType
	Kind    MatrixKind
	Coords  [][]float64 // [nPg][refDim] natural coordinates
	Weights []float64   // [nPg] positive weights
}

func (g *Gauss) NPG() int { return len(g.Weights) }

// NewGauss returns the quadrature rule for the given topology and
// matrix kind. The same pair always yields the same ordered points.
func NewGauss(et ElemType, kind MatrixKind) (*Gauss, error) {
	if kind != Stiffness && kind != Mass {
		return nil, fmt.Errorf("%w: %v kind %d", ErrNoQuadrature, et, int(kind))
	}
	var (
		coords  [][]float64
		weights []float64
	)
	switch et {
	case Seg2:
		if kind == Stiffness {
			coords = [][]float64{{0}}
			weights = []float64{2}
		} else {
			coords = [][]float64{{-invSqrt3}, {invSqrt3}}
			weights = []float64{1, 1}
		}
	case Seg3:
		if kind == Stiffness {
			coords = [][]float64{{-invSqrt3}, {invSqrt3}}
			weights = []float64{1, 1}
		} else {
			coords = [][]float64{{-sqrt35}, {0}, {sqrt35}}
			weights = []float64{5. / 9, 8. / 9, 5. / 9}
		}
	case Tri3:
		if kind == Stiffness {
			coords = [][]float64{{1. / 3, 1. / 3}}
			weights = []float64{1. / 2}
		} else {
			coords, weights = tri3pt()
		}
	case Tri6:
		if kind == Stiffness {
			coords, weights = tri3pt()
		} else {
			coords, weights = tri6pt()
		}
	case Quad4:
		coords, weights = tensor2(gl2, gl2w)
	case Quad8:
		coords, weights = tensor2(gl3, gl3w)
	case Tetra4:
		if kind == Stiffness {
			coords = [][]float64{{0.25, 0.25, 0.25}}
			weights = []float64{1. / 6}
		} else {
			const (
				a = 0.5854101966249685 // (5+3*sqrt(5))/20
				b = 0.1381966011250105 // (5-sqrt(5))/20
			)
			coords = [][]float64{{b, b, b}, {a, b, b}, {b, a, b}, {b, b, a}}
			weights = []float64{1. / 24, 1. / 24, 1. / 24, 1. / 24}
		}
	case Hexa8:
		coords, weights = tensor3(gl2, gl2w)
	case Prism6:
		// extrusion axis x times the 3-point triangle rule in (y,z)
		tc, tw := tri3pt()
		for i, x := range gl2 {
			for j := range tc {
				coords = append(coords, []float64{x, tc[j][0], tc[j][1]})
				weights = append(weights, gl2w[i]*tw[j])
			}
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrNoQuadrature, et)
	}
	return &Gauss{Etype: et, Kind: kind, Coords: coords, Weights: weights}, nil
}

var (
	invSqrt3 = 1 / math.Sqrt(3)
	sqrt35   = math.Sqrt(3. / 5)

	gl2  = []float64{-invSqrt3, invSqrt3}
	gl2w = []float64{1, 1}
	gl3  = []float64{-sqrt35, 0, sqrt35}
	gl3w = []float64{5. / 9, 8. / 9, 5. / 9}
)

func tri3pt() (coords [][]float64, weights []float64) {
	coords = [][]float64{{1. / 6, 1. / 6}, {2. / 3, 1. / 6}, {1. / 6, 2. / 3}}
	weights = []float64{1. / 6, 1. / 6, 1. / 6}
	return
}

// tri6pt is the degree-4 six point rule on the reference triangle.
func tri6pt() (coords [][]float64, weights []float64) {
	const (
		a  = 0.445948490915965
		b  = 0.091576213509771
		wa = 0.111690794839005
		wb = 0.054975871827661
	)
	coords = [][]float64{
		{a, a}, {1 - 2*a, a}, {a, 1 - 2*a},
		{b, b}, {1 - 2*b, b}, {b, 1 - 2*b},
	}
	weights = []float64{wa, wa, wa, wb, wb, wb}
	return
}

func tensor2(x, w []float64) (coords [][]float64, weights []float64) {
	for j := range x {
		for i := range x {
			coords = append(coords, []float64{x[i], x[j]})
			weights = append(weights, w[i]*w[j])
		}
	}
	return
}

func tensor3(x, w []float64) (coords [][]float64, weights []float64) {
	for k := range x {
		for j := range x {
			for i := range x {
				coords = append(coords, []float64{x[i], x[j], x[k]})
				weights = append(weights, w[i]*w[j]*w[k])
			}
		}
	}
	return
}
