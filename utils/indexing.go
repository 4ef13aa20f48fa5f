package utils

import "fmt"

type Index []int

func NewIndex(n int) (I Index) {
	I = make(Index, n)
	return
}

// NewRange returns the indices [min, max), a half-open interval.
func NewRange(min, max int) (I Index) {
	I = make(Index, max-min)
	for i := range I {
		I[i] = i + min
	}
	return
}

// NewStride returns start, start+stride, ... below max.
func NewStride(start, max, stride int) (I Index) {
	for i := start; i < max; i += stride {
		I = append(I, i)
	}
	return
}

func (I Index) Add(val int) (R Index) {
	R = make(Index, len(I))
	for i, ind := range I {
		R[i] = ind + val
	}
	return
}

func (I Index) Scale(val int) (R Index) {
	R = make(Index, len(I))
	for i, ind := range I {
		R[i] = ind * val
	}
	return
}

func (I Index) Subset(J Index) (R Index) {
	R = make(Index, len(J))
	for i, ind := range J {
		if ind < 0 || ind >= len(I) {
			panic(fmt.Errorf("index out of bounds: index = %d, max_bounds = %d", ind, len(I)-1))
		}
		R[i] = I[ind]
	}
	return
}

func (I Index) Contains(val int) bool {
	for _, ind := range I {
		if ind == val {
			return true
		}
	}
	return false
}

// ToSet returns a membership map, used for exclusive element queries.
func (I Index) ToSet() (s map[int]struct{}) {
	s = make(map[int]struct{}, len(I))
	for _, ind := range I {
		s[ind] = struct{}{}
	}
	return
}
