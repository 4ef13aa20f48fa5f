package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m Matrix) Set(i, j int, val float64) Matrix {
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) Data() []float64 {
	return m.M.RawMatrix().Data
}

func (m Matrix) Row(i int) []float64 {
	return m.M.RawRowView(i)
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.M.RawMatrix().Data
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.M.Set(j, i, m.M.At(i, j))
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nr != nrA || nc != ncA {
		panic(fmt.Errorf("dimension mismatch in Add: %v,%v != %v,%v", nr, nc, nrA, ncA))
	}
	dataM := m.Data()
	for i, val := range A.Data() {
		dataM[i] += val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	data := m.Data()
	for i := range data {
		data[i] *= a
	}
	return m
}

// ScatterAdd accumulates m into the (rows x cols) locations of a dense
// target; used to fold elemental matrices into small dense systems.
func (m Matrix) ScatterAdd(target Matrix, rows, cols Index) {
	var (
		nr, nc = m.Dims()
	)
	if nr != len(rows) || nc != len(cols) {
		panic(fmt.Errorf("dimension mismatch in ScatterAdd: %v,%v vs %v,%v",
			nr, nc, len(rows), len(cols)))
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			target.M.Set(rows[i], cols[j], target.M.At(rows[i], cols[j])+m.M.At(i, j))
		}
	}
}

// IsSymmetric reports whether |m - m'| stays below tol entrywise.
func (m Matrix) IsSymmetric(tol float64) bool {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nc; j++ {
			d := m.M.At(i, j) - m.M.At(j, i)
			if d < -tol || d > tol {
				return false
			}
		}
	}
	return true
}

func (m Matrix) Print(label string) {
	fmt.Printf("%s = \n%v\n", label, mat.Formatted(m.M, mat.Squeeze()))
}
