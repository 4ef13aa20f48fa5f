package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v",
				n, len(dataO[0]))
			panic(err)
		}
		R = Vector{mat.NewVecDense(n, dataO[0])}
	} else {
		R = Vector{mat.NewVecDense(n, make([]float64, n))}
	}
	return
}

func (v Vector) Len() int             { return v.V.Len() }
func (v Vector) AtVec(i int) float64  { return v.V.AtVec(i) }
func (v Vector) Data() []float64      { return v.V.RawVector().Data }
func (v Vector) Set(i int, a float64) { v.V.SetVec(i, a) }

func (v Vector) Copy() (R Vector) {
	var (
		data  = v.Data()
		dataR = make([]float64, len(data))
	)
	copy(dataR, data)
	R = NewVector(len(dataR), dataR)
	return
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	data := v.Data()
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	if v.Len() != a.Len() {
		panic(fmt.Errorf("dimension mismatch in Add: %v != %v", v.Len(), a.Len()))
	}
	for i, val := range a.Data() {
		data[i] += val
	}
	return v
}

func (v Vector) Norm() (n float64) {
	for _, val := range v.Data() {
		n += val * val
	}
	n = math.Sqrt(n)
	return
}

func (v Vector) Subset(I Index) (R Vector) {
	var (
		data  = v.Data()
		dataR = make([]float64, len(I))
	)
	for i, ind := range I {
		dataR[i] = data[ind]
	}
	R = NewVector(len(I), dataR)
	return
}

func (v Vector) Min() (min float64) {
	for i, val := range v.Data() {
		if i == 0 || val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	for i, val := range v.Data() {
		if i == 0 || val > max {
			max = val
		}
	}
	return
}
