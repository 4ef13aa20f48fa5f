// Package sim assembles and solves the physical problems built on the
// elemental operators: linear elasticity, steady conduction, the
// phase-field damage problem, and Euler-Bernoulli frames.
package sim

import (
	"errors"
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/clavel/gofea/utils"
)

var (
	ErrSingularSystem = errors.New("singular system: not enough constraints")
	ErrBadDOF         = errors.New("degree of freedom out of range")
	ErrMissingGroup   = errors.New("mesh has no group of the required dimension")
)

// assemble accumulates flattened elemental values into an n x n sparse
// matrix through the scatter index arrays. DOK absorbs the duplicate
// (row,col) hits, CSR is what the solver reads.
func assemble(n int, rows, cols utils.Index, vals []float64) *sparse.CSR {
	dok := sparse.NewDOK(n, n)
	for k, v := range vals {
		if v == 0 {
			continue
		}
		r, c := rows[k], cols[k]
		dok.Set(r, c, dok.At(r, c)+v)
	}
	return dok.ToCSR()
}

// solveReduced solves K u = f with the fixed DOFs eliminated: the free
// block is extracted densely, the right side is corrected by the
// coupling columns, and the reduced system goes through Cholesky with
// an LU fallback. Prescribed values reappear in the returned full
// vector.
func solveReduced(K *sparse.CSR, f []float64, fixed map[int]float64) ([]float64, error) {
	var (
		n    = len(f)
		pos  = make([]int, n) // dof -> reduced index, -1 when fixed
		free []int
	)
	for dof := range fixed {
		if dof < 0 || dof >= n {
			return nil, fmt.Errorf("%w: fixed dof %d of %d", ErrBadDOF, dof, n)
		}
	}
	for i := 0; i < n; i++ {
		if _, ok := fixed[i]; ok {
			pos[i] = -1
		} else {
			pos[i] = len(free)
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		out := make([]float64, n)
		for dof, v := range fixed {
			out[dof] = v
		}
		return out, nil
	}

	var (
		nf  = len(free)
		kff = mat.NewSymDense(nf, nil)
		b   = make([]float64, nf)
	)
	for i, dof := range free {
		b[i] = f[dof]
	}
	K.DoNonZero(func(r, c int, v float64) {
		ri := pos[r]
		if ri < 0 {
			return
		}
		if ci := pos[c]; ci >= 0 {
			if ci >= ri { // upper triangle feeds the symmetric storage
				kff.SetSym(ri, ci, v)
			}
		} else {
			b[ri] -= v * fixed[c]
		}
	})

	var (
		sol  = utils.NewVector(nf)
		rhs  = utils.NewVector(nf, b)
		chol mat.Cholesky
	)
	if chol.Factorize(kff) {
		if err := chol.SolveVecTo(sol.V, rhs.V); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
	} else {
		// not numerically SPD, fall back to a general factorization
		var lu mat.LU
		lu.Factorize(kff)
		if err := lu.SolveVecTo(sol.V, false, rhs.V); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
	}

	out := make([]float64, n)
	for dof, v := range fixed {
		out[dof] = v
	}
	for i, dof := range free {
		out[dof] = sol.AtVec(i)
	}
	return out, nil
}
