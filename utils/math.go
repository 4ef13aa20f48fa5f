package utils

import (
	"fmt"
	"math"
)

// Det computes the determinant of a small square matrix held in a
// Tensor4 block. Specialized 1/2/3-D forms; anything larger is a
// programmer error in this codebase.
func Det(m Matrix) (d float64) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		panic(fmt.Errorf("determinant of non-square matrix %d x %d", nr, nc))
	}
	switch nr {
	case 1:
		d = m.At(0, 0)
	case 2:
		d = m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
	case 3:
		d = m.At(0, 0)*(m.At(1, 1)*m.At(2, 2)-m.At(1, 2)*m.At(2, 1)) -
			m.At(0, 1)*(m.At(1, 0)*m.At(2, 2)-m.At(1, 2)*m.At(2, 0)) +
			m.At(0, 2)*(m.At(1, 0)*m.At(2, 1)-m.At(1, 1)*m.At(2, 0))
	default:
		panic(fmt.Errorf("determinant not implemented for %d x %d", nr, nc))
	}
	return
}

// InvertSmall writes the inverse of m into out given a precomputed
// determinant. Closed forms sidestep the generic LU path and its
// singular-matrix exceptions on well-conditioned small matrices.
//
//	1x1: scalar reciprocal
//	2x2: adjugate over determinant
//	3x3: cofactor expansion
func InvertSmall(out, m Matrix, det float64) {
	var (
		nr, _ = m.Dims()
	)
	switch nr {
	case 1:
		out.Set(0, 0, 1/det)
	case 2:
		out.Set(0, 0, m.At(1, 1)/det)
		out.Set(0, 1, -m.At(0, 1)/det)
		out.Set(1, 0, -m.At(1, 0)/det)
		out.Set(1, 1, m.At(0, 0)/det)
	case 3:
		out.Set(0, 0, (m.At(1, 1)*m.At(2, 2)-m.At(1, 2)*m.At(2, 1))/det)
		out.Set(0, 1, (m.At(0, 2)*m.At(2, 1)-m.At(0, 1)*m.At(2, 2))/det)
		out.Set(0, 2, (m.At(0, 1)*m.At(1, 2)-m.At(0, 2)*m.At(1, 1))/det)
		out.Set(1, 0, (m.At(1, 2)*m.At(2, 0)-m.At(1, 0)*m.At(2, 2))/det)
		out.Set(1, 1, (m.At(0, 0)*m.At(2, 2)-m.At(0, 2)*m.At(2, 0))/det)
		out.Set(1, 2, (m.At(0, 2)*m.At(1, 0)-m.At(0, 0)*m.At(1, 2))/det)
		out.Set(2, 0, (m.At(1, 0)*m.At(2, 1)-m.At(1, 1)*m.At(2, 0))/det)
		out.Set(2, 1, (m.At(0, 1)*m.At(2, 0)-m.At(0, 0)*m.At(2, 1))/det)
		out.Set(2, 2, (m.At(0, 0)*m.At(1, 1)-m.At(0, 1)*m.At(1, 0))/det)
	default:
		panic(fmt.Errorf("inverse not implemented for %d x %d", nr, nr))
	}
}

func Cross(a, b [3]float64) (c [3]float64) {
	c[0] = a[1]*b[2] - a[2]*b[1]
	c[1] = a[2]*b[0] - a[0]*b[2]
	c[2] = a[0]*b[1] - a[1]*b[0]
	return
}

func Norm3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

func Normalize3(a [3]float64) (u [3]float64) {
	n := Norm3(a)
	if n == 0 {
		panic("cannot normalize a zero vector")
	}
	u[0], u[1], u[2] = a[0]/n, a[1]/n, a[2]/n
	return
}

func Dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Sub3(a, b [3]float64) (c [3]float64) {
	c[0], c[1], c[2] = a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return
}
