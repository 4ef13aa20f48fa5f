package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/*
Elemental tensors use a fixed axis discipline throughout the assembly
core:

	e -- element index within a group
	p -- quadrature point index
	i -- operator row
	j -- operator column

Storage is row-major in that order, so the (i,j) block of one element at
one quadrature point is contiguous and can be viewed as a dense matrix
without copying. Any contraction states which axis it sums over at the
loop nest that performs it.
*/

// Tensor4 holds quantities indexed (e, p, i, j), e.g. Jacobians, strain
// operators and per-point stiffness factors.
type Tensor4 struct {
	Ne, Np, Ni, Nj int
	Data           []float64
}

func NewTensor4(ne, np, ni, nj int) (T Tensor4) {
	T = Tensor4{
		Ne: ne, Np: np, Ni: ni, Nj: nj,
		Data: make([]float64, ne*np*ni*nj),
	}
	return
}

func (t Tensor4) offset(e, p int) int {
	return ((e*t.Np + p) * t.Ni) * t.Nj
}

func (t Tensor4) At(e, p, i, j int) float64 {
	return t.Data[t.offset(e, p)+i*t.Nj+j]
}

func (t Tensor4) Set(e, p, i, j int, val float64) {
	t.Data[t.offset(e, p)+i*t.Nj+j] = val
}

// Block returns the (i,j) matrix of element e at point p as a view
// backed by the tensor storage; writes through the view mutate t.
func (t Tensor4) Block(e, p int) (R Matrix) {
	var (
		off = t.offset(e, p)
	)
	R = Matrix{mat.NewDense(t.Ni, t.Nj, t.Data[off:off+t.Ni*t.Nj])}
	return
}

func (t Tensor4) Copy() (R Tensor4) {
	R = NewTensor4(t.Ne, t.Np, t.Ni, t.Nj)
	copy(R.Data, t.Data)
	return
}

// SumPoints contracts over the quadrature axis p, returning per-element
// (i,j) blocks stacked in a Tensor4 with Np == 1.
func (t Tensor4) SumPoints() (R Tensor4) {
	R = NewTensor4(t.Ne, 1, t.Ni, t.Nj)
	bs := t.Ni * t.Nj
	for e := 0; e < t.Ne; e++ {
		dst := R.Data[e*bs : (e+1)*bs]
		for p := 0; p < t.Np; p++ {
			src := t.Data[t.offset(e, p) : t.offset(e, p)+bs]
			for k, val := range src {
				dst[k] += val
			}
		}
	}
	return
}

// Tensor3 holds quantities indexed (e, p, i), e.g. quadrature-point
// coordinates or per-point load vectors.
type Tensor3 struct {
	Ne, Np, Ni int
	Data       []float64
}

func NewTensor3(ne, np, ni int) (T Tensor3) {
	T = Tensor3{Ne: ne, Np: np, Ni: ni, Data: make([]float64, ne*np*ni)}
	return
}

func (t Tensor3) At(e, p, i int) float64 {
	return t.Data[(e*t.Np+p)*t.Ni+i]
}

func (t Tensor3) Set(e, p, i int, val float64) {
	t.Data[(e*t.Np+p)*t.Ni+i] = val
}

// Row returns the i-axis of element e at point p as a shared view.
func (t Tensor3) Row(e, p int) []float64 {
	off := (e*t.Np + p) * t.Ni
	return t.Data[off : off+t.Ni]
}

func (t Tensor3) Dims() (ne, np, ni int) { return t.Ne, t.Np, t.Ni }

func (t Tensor4) Dims() (ne, np, ni, nj int) { return t.Ne, t.Np, t.Ni, t.Nj }

func checkSameShape4(a, b Tensor4) {
	if a.Ne != b.Ne || a.Np != b.Np || a.Ni != b.Ni || a.Nj != b.Nj {
		panic(fmt.Errorf("tensor shape mismatch: (%d,%d,%d,%d) vs (%d,%d,%d,%d)",
			a.Ne, a.Np, a.Ni, a.Nj, b.Ne, b.Np, b.Ni, b.Nj))
	}
}

// Add accumulates b into t entrywise. Changes receiver.
func (t Tensor4) Add(b Tensor4) Tensor4 {
	checkSameShape4(t, b)
	for k, val := range b.Data {
		t.Data[k] += val
	}
	return t
}

// Scale multiplies every entry by a. Changes receiver.
func (t Tensor4) Scale(a float64) Tensor4 {
	for k := range t.Data {
		t.Data[k] *= a
	}
	return t
}
