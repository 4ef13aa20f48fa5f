package mesh

import (
	"fmt"
	"math"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/utils"
)

// KelvinMandelCoef scales every shear row of the strain operator so
// that B*u yields [.., sqrt(2)*eps_xy, ..] instead of the engineering
// gamma. Constitutive tensors produced by the materials package carry
// the matching 2*mu shear diagonal; the pair preserves the energy inner
// product. A single constant applied to whole rows, never per entry.
var KelvinMandelCoef = 1 / math.Sqrt(2)

// StrainDisplacement returns the Kelvin-Mandel strain operator B,
// (e,p,rows,nPe*dim) with rows = 3 in 2D and 6 in 3D:
//
//	2D: [ dN1dx  0     dN2dx 0     ...
//	      0      dN1dy 0     dN2dy ...
//	      c*dN1dy c*dN1dx ...          ]  with c = KelvinMandelCoef
func (g *ElementGroup) StrainDisplacement(kind elements.MatrixKind) (utils.Tensor4, error) {
	var (
		dim = g.Dim()
	)
	if dim != 2 && dim != 3 {
		return utils.Tensor4{}, fmt.Errorf("%w: strain operator needs a 2D or 3D group, have %v", ErrDimensionMismatch, g.etype)
	}
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	c.bOnce.Do(func() {
		var (
			ne   = g.Ne()
			nPg  = c.jac.M.RawMatrix().Cols
			nPe  = g.NPE()
			rows = 3
			km   = KelvinMandelCoef
		)
		if dim == 3 {
			rows = 6
		}
		c.b = utils.NewTensor4(ne, nPg, rows, nPe*dim)
		for e := 0; e < ne; e++ {
			for p := 0; p < nPg; p++ {
				var (
					dx = c.dNdx.Block(e, p)
					B  = c.b.Block(e, p)
				)
				for n := 0; n < nPe; n++ {
					var (
						cx = n * dim // x-DOF column of node n
						cy = cx + 1
					)
					if dim == 2 {
						dNdx, dNdy := dx.At(0, n), dx.At(1, n)
						B.Set(0, cx, dNdx)
						B.Set(1, cy, dNdy)
						B.Set(2, cx, km*dNdy)
						B.Set(2, cy, km*dNdx)
					} else {
						cz := cx + 2
						dNdx, dNdy, dNdz := dx.At(0, n), dx.At(1, n), dx.At(2, n)
						B.Set(0, cx, dNdx)
						B.Set(1, cy, dNdy)
						B.Set(2, cz, dNdz)
						B.Set(3, cy, km*dNdz)
						B.Set(3, cz, km*dNdy)
						B.Set(4, cx, km*dNdz)
						B.Set(4, cz, km*dNdx)
						B.Set(5, cx, km*dNdy)
						B.Set(5, cy, km*dNdx)
					}
				}
			}
		}
	})
	return c.b, c.bErr
}

// LeftStiffness returns jac[e,p] * weight[p] * B'[e,p], the factor that
// left-multiplies a constitutive tensor in K_e = sum_p L*C*B. Cached
// apart from the full product so heterogeneous or damage-degraded C can
// vary per element and point without re-deriving geometry.
func (g *ElementGroup) LeftStiffness(kind elements.MatrixKind) (utils.Tensor4, error) {
	b, err := g.StrainDisplacement(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	c, _ := g.kind(kind)
	gauss, _ := g.Gauss(kind)
	c.leftOnce.Do(func() {
		c.left = utils.NewTensor4(b.Ne, b.Np, b.Nj, b.Ni) // transposed blocks
		for e := 0; e < b.Ne; e++ {
			for p := 0; p < b.Np; p++ {
				var (
					jw = c.jac.At(e, p) * gauss.Weights[p]
					L  = c.left.Block(e, p)
					B  = b.Block(e, p)
				)
				for i := 0; i < b.Ni; i++ {
					for j := 0; j < b.Nj; j++ {
						L.Set(j, i, jw*B.At(i, j))
					}
				}
			}
		}
	})
	return c.left, c.leftErr
}

// ReactionPart returns jac*weight * N'N per element and point,
// (e,p,nPe,nPe), ready for a scalar reaction coefficient and summation
// over p.
func (g *ElementGroup) ReactionPart(kind elements.MatrixKind) (utils.Tensor4, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	gauss, _ := g.Gauss(kind)
	c.reactOnce.Do(func() {
		var (
			ne  = g.Ne()
			nPg = gauss.NPG()
			nPe = g.NPE()
		)
		c.reaction = utils.NewTensor4(ne, nPg, nPe, nPe)
		for e := 0; e < ne; e++ {
			for p := 0; p < nPg; p++ {
				var (
					jw = c.jac.At(e, p) * gauss.Weights[p]
					R  = c.reaction.Block(e, p)
				)
				for i := 0; i < nPe; i++ {
					for j := 0; j < nPe; j++ {
						R.Set(i, j, jw*c.nPg.At(p, i)*c.nPg.At(p, j))
					}
				}
			}
		}
	})
	return c.reaction, c.reactErr
}

// DiffusionPart returns jac*weight * dN'dN per element and point,
// (e,p,nPe,nPe). The contraction sums the spatial axis k:
//
//	D[e,p,i,j] = jw * sum_k dNdx[e,p,k,i]*dNdx[e,p,k,j]
func (g *ElementGroup) DiffusionPart(kind elements.MatrixKind) (utils.Tensor4, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	gauss, _ := g.Gauss(kind)
	c.diffOnce.Do(func() {
		var (
			ne  = g.Ne()
			nPg = gauss.NPG()
			nPe = g.NPE()
			dim = g.Dim()
		)
		c.diffuse = utils.NewTensor4(ne, nPg, nPe, nPe)
		for e := 0; e < ne; e++ {
			for p := 0; p < nPg; p++ {
				var (
					jw = c.jac.At(e, p) * gauss.Weights[p]
					dx = c.dNdx.Block(e, p)
					D  = c.diffuse.Block(e, p)
				)
				for i := 0; i < nPe; i++ {
					for j := 0; j < nPe; j++ {
						var sum float64
						for k := 0; k < dim; k++ { // sum over spatial axis
							sum += dx.At(k, i) * dx.At(k, j)
						}
						D.Set(i, j, jw*sum)
					}
				}
			}
		}
	})
	return c.diffuse, c.diffErr
}

// SourcePart returns jac*weight * N' per element and point, (e,p,nPe,1),
// ready for a source density and summation over p.
func (g *ElementGroup) SourcePart(kind elements.MatrixKind) (utils.Tensor4, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	gauss, _ := g.Gauss(kind)
	c.srcOnce.Do(func() {
		var (
			ne  = g.Ne()
			nPg = gauss.NPG()
			nPe = g.NPE()
		)
		c.source = utils.NewTensor4(ne, nPg, nPe, 1)
		for e := 0; e < ne; e++ {
			for p := 0; p < nPg; p++ {
				jw := c.jac.At(e, p) * gauss.Weights[p]
				for i := 0; i < nPe; i++ {
					c.source.Set(e, p, i, 0, jw*c.nPg.At(p, i))
				}
			}
		}
	})
	return c.source, c.srcErr
}
