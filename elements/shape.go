package elements

import "fmt"

// ShapeAt evaluates the nPe scalar shape functions at the natural
// coordinate r (len == Dim()). Point elements carry no interpolation
// and return (nil, nil).
func ShapeAt(et ElemType, r []float64) ([]float64, error) {
	if et == Point {
		return nil, nil
	}
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTopology, et)
	}
	if len(r) < et.Dim() {
		return nil, fmt.Errorf("need %d natural coordinates for %v, got %d", et.Dim(), et, len(r))
	}
	var (
		N = make([]float64, et.NPE())
	)
	switch et {
	case Seg2:
		x := r[0]
		N[0] = 0.5 * (1 - x)
		N[1] = 0.5 * (1 + x)
	case Seg3:
		x := r[0]
		N[0] = -0.5 * (1 - x) * x
		N[1] = 0.5 * (1 + x) * x
		N[2] = (1 + x) * (1 - x)
	case Tri3:
		ksi, eta := r[0], r[1]
		N[0] = 1 - ksi - eta
		N[1] = ksi
		N[2] = eta
	case Tri6:
		ksi, eta := r[0], r[1]
		lam := 1 - ksi - eta
		N[0] = -lam * (1 - 2*lam)
		N[1] = -ksi * (1 - 2*ksi)
		N[2] = -eta * (1 - 2*eta)
		N[3] = 4 * ksi * lam
		N[4] = 4 * ksi * eta
		N[5] = 4 * eta * lam
	case Quad4:
		ksi, eta := r[0], r[1]
		N[0] = (1 - ksi) * (1 - eta) / 4
		N[1] = (1 + ksi) * (1 - eta) / 4
		N[2] = (1 + ksi) * (1 + eta) / 4
		N[3] = (1 - ksi) * (1 + eta) / 4
	case Quad8:
		ksi, eta := r[0], r[1]
		N[0] = (1 - ksi) * (1 - eta) * (-1 - ksi - eta) / 4
		N[1] = (1 + ksi) * (1 - eta) * (-1 + ksi - eta) / 4
		N[2] = (1 + ksi) * (1 + eta) * (-1 + ksi + eta) / 4
		N[3] = (1 - ksi) * (1 + eta) * (-1 - ksi + eta) / 4
		N[4] = (1 - ksi*ksi) * (1 - eta) / 2
		N[5] = (1 + ksi) * (1 - eta*eta) / 2
		N[6] = (1 - ksi*ksi) * (1 + eta) / 2
		N[7] = (1 - ksi) * (1 - eta*eta) / 2
	case Tetra4:
		x, y, z := r[0], r[1], r[2]
		N[0] = 1 - x - y - z
		N[1] = x
		N[2] = y
		N[3] = z
	case Hexa8:
		x, y, z := r[0], r[1], r[2]
		N[0] = (1 - x) * (1 - y) * (1 - z) / 8
		N[1] = (1 + x) * (1 - y) * (1 - z) / 8
		N[2] = (1 + x) * (1 + y) * (1 - z) / 8
		N[3] = (1 - x) * (1 + y) * (1 - z) / 8
		N[4] = (1 - x) * (1 - y) * (1 + z) / 8
		N[5] = (1 + x) * (1 - y) * (1 + z) / 8
		N[6] = (1 + x) * (1 + y) * (1 + z) / 8
		N[7] = (1 - x) * (1 + y) * (1 + z) / 8
	case Prism6:
		// x runs along the extrusion axis, (y,z) span the triangle.
		// The node ordering is the permuted wedge convention
		// [n3,n1,n2,n6,n4,n5] of the mesh generator; do not "fix" it,
		// a reorder here silently inverts every element.
		x, y, z := r[0], r[1], r[2]
		N[0] = 0.5 * (1 - y - z) * (1 - x)
		N[1] = 0.5 * y * (1 - x)
		N[2] = 0.5 * z * (1 - x)
		N[3] = 0.5 * (1 - y - z) * (1 + x)
		N[4] = 0.5 * y * (1 + x)
		N[5] = 0.5 * z * (1 + x)
	}
	return N, nil
}

// DerivAt evaluates the reference-space gradients dN_i/dr_d at the
// natural coordinate r. The result is indexed [d][i]: one row per
// natural direction, one column per node, matching the dN_pg layout the
// geometric mapping contracts against. Point elements return (nil, nil).
func DerivAt(et ElemType, r []float64) ([][]float64, error) {
	if et == Point {
		return nil, nil
	}
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTopology, et)
	}
	if len(r) < et.Dim() {
		return nil, fmt.Errorf("need %d natural coordinates for %v, got %d", et.Dim(), et, len(r))
	}
	var (
		dim = et.Dim()
		nPe = et.NPE()
		dN  = make([][]float64, dim)
	)
	for d := range dN {
		dN[d] = make([]float64, nPe)
	}
	switch et {
	case Seg2:
		dN[0][0] = -0.5
		dN[0][1] = 0.5
	case Seg3:
		x := r[0]
		dN[0][0] = x - 0.5
		dN[0][1] = x + 0.5
		dN[0][2] = -2 * x
	case Tri3:
		dN[0][0], dN[1][0] = -1, -1
		dN[0][1], dN[1][1] = 1, 0
		dN[0][2], dN[1][2] = 0, 1
	case Tri6:
		ksi, eta := r[0], r[1]
		dN[0][0], dN[1][0] = 4*ksi+4*eta-3, 4*ksi+4*eta-3
		dN[0][1], dN[1][1] = 4*ksi-1, 0
		dN[0][2], dN[1][2] = 0, 4*eta-1
		dN[0][3], dN[1][3] = 4-8*ksi-4*eta, -4*ksi
		dN[0][4], dN[1][4] = 4*eta, 4*ksi
		dN[0][5], dN[1][5] = -4*eta, 4-4*ksi-8*eta
	case Quad4:
		ksi, eta := r[0], r[1]
		dN[0][0], dN[1][0] = (eta-1)/4, (ksi-1)/4
		dN[0][1], dN[1][1] = (1-eta)/4, (-ksi-1)/4
		dN[0][2], dN[1][2] = (1+eta)/4, (1+ksi)/4
		dN[0][3], dN[1][3] = (-eta-1)/4, (1-ksi)/4
	case Quad8:
		ksi, eta := r[0], r[1]
		dN[0][0], dN[1][0] = (1-eta)*(2*ksi+eta)/4, (1-ksi)*(ksi+2*eta)/4
		dN[0][1], dN[1][1] = (1-eta)*(2*ksi-eta)/4, -(1+ksi)*(ksi-2*eta)/4
		dN[0][2], dN[1][2] = (1+eta)*(2*ksi+eta)/4, (1+ksi)*(ksi+2*eta)/4
		dN[0][3], dN[1][3] = -(1+eta)*(-2*ksi+eta)/4, (1-ksi)*(-ksi+2*eta)/4
		dN[0][4], dN[1][4] = -ksi*(1-eta), -(1-ksi*ksi)/2
		dN[0][5], dN[1][5] = (1-eta*eta)/2, -eta*(1+ksi)
		dN[0][6], dN[1][6] = -ksi*(1+eta), (1-ksi*ksi)/2
		dN[0][7], dN[1][7] = -(1-eta*eta)/2, -eta*(1-ksi)
	case Tetra4:
		dN[0][0], dN[1][0], dN[2][0] = -1, -1, -1
		dN[0][1], dN[1][1], dN[2][1] = 1, 0, 0
		dN[0][2], dN[1][2], dN[2][2] = 0, 1, 0
		dN[0][3], dN[1][3], dN[2][3] = 0, 0, 1
	case Hexa8:
		x, y, z := r[0], r[1], r[2]
		dN[0][0], dN[1][0], dN[2][0] = -(1-y)*(1-z)/8, -(1-x)*(1-z)/8, -(1-x)*(1-y)/8
		dN[0][1], dN[1][1], dN[2][1] = (1-y)*(1-z)/8, -(1+x)*(1-z)/8, -(1+x)*(1-y)/8
		dN[0][2], dN[1][2], dN[2][2] = (1+y)*(1-z)/8, (1+x)*(1-z)/8, -(1+x)*(1+y)/8
		dN[0][3], dN[1][3], dN[2][3] = -(1+y)*(1-z)/8, (1-x)*(1-z)/8, -(1-x)*(1+y)/8
		dN[0][4], dN[1][4], dN[2][4] = -(1-y)*(1+z)/8, -(1-x)*(1+z)/8, (1-x)*(1-y)/8
		dN[0][5], dN[1][5], dN[2][5] = (1-y)*(1+z)/8, -(1+x)*(1+z)/8, (1+x)*(1-y)/8
		dN[0][6], dN[1][6], dN[2][6] = (1+y)*(1+z)/8, (1+x)*(1+z)/8, (1+x)*(1+y)/8
		dN[0][7], dN[1][7], dN[2][7] = -(1+y)*(1+z)/8, (1-x)*(1+z)/8, (1-x)*(1+y)/8
	case Prism6:
		x, y, z := r[0], r[1], r[2]
		dN[0][0], dN[1][0], dN[2][0] = -0.5*(1-y-z), -0.5*(1-x), -0.5*(1-x)
		dN[0][1], dN[1][1], dN[2][1] = -0.5*y, 0.5*(1-x), 0
		dN[0][2], dN[1][2], dN[2][2] = -0.5*z, 0, 0.5*(1-x)
		dN[0][3], dN[1][3], dN[2][3] = 0.5*(1-y-z), -0.5*(1+x), -0.5*(1+x)
		dN[0][4], dN[1][4], dN[2][4] = 0.5*y, 0.5*(1+x), 0
		dN[0][5], dN[1][5], dN[2][5] = 0.5*z, 0, 0.5*(1+x)
	}
	return dN, nil
}

// RefCoords returns the natural coordinates of the element nodes,
// indexed [node][dim]. Shape function i equals 1 at node i and 0 at all
// others (Kronecker delta).
func RefCoords(et ElemType) ([][]float64, error) {
	if et == Point {
		return nil, nil
	}
	switch et {
	case Seg2:
		return [][]float64{{-1}, {1}}, nil
	case Seg3:
		return [][]float64{{-1}, {1}, {0}}, nil
	case Tri3:
		return [][]float64{{0, 0}, {1, 0}, {0, 1}}, nil
	case Tri6:
		return [][]float64{{0, 0}, {1, 0}, {0, 1}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}}, nil
	case Quad4:
		return [][]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}, nil
	case Quad8:
		return [][]float64{
			{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
			{0, -1}, {1, 0}, {0, 1}, {-1, 0},
		}, nil
	case Tetra4:
		return [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, nil
	case Hexa8:
		return [][]float64{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		}, nil
	case Prism6:
		return [][]float64{
			{-1, 0, 0}, {-1, 1, 0}, {-1, 0, 1},
			{1, 0, 0}, {1, 1, 0}, {1, 0, 1},
		}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedTopology, et)
}
