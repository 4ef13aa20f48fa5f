package mesh

import (
	"fmt"
	"math"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/utils"
)

// ShapeAtQuad returns the [nPg][nPe] matrix of shape values at the
// quadrature points of kind.
func (g *ElementGroup) ShapeAtQuad(kind elements.MatrixKind) (utils.Matrix, error) {
	c, err := g.refQuantities(kind)
	if err != nil {
		return utils.Matrix{}, err
	}
	return c.nPg, nil
}

// RefDerivs returns the natural gradients at the quadrature points, one
// [refDim][nPe] matrix per point.
func (g *ElementGroup) RefDerivs(kind elements.MatrixKind) ([]utils.Matrix, error) {
	c, err := g.refQuantities(kind)
	if err != nil {
		return nil, err
	}
	return c.dNpg, nil
}

func (g *ElementGroup) refQuantities(kind elements.MatrixKind) (*kindCache, error) {
	c, err := g.kind(kind)
	if err != nil {
		return nil, err
	}
	gauss, err := g.Gauss(kind)
	if err != nil {
		return nil, err
	}
	c.refOnce.Do(func() {
		var (
			nPg = gauss.NPG()
			nPe = g.NPE()
			dim = g.Dim()
		)
		c.nPg = utils.NewMatrix(nPg, nPe)
		c.dNpg = make([]utils.Matrix, nPg)
		for p := 0; p < nPg; p++ {
			N, err := elements.ShapeAt(g.etype, gauss.Coords[p])
			if err != nil {
				c.refErr = err
				return
			}
			dN, err := elements.DerivAt(g.etype, gauss.Coords[p])
			if err != nil {
				c.refErr = err
				return
			}
			for i, v := range N {
				c.nPg.Set(p, i, v)
			}
			c.dNpg[p] = utils.NewMatrix(dim, nPe)
			for d := 0; d < dim; d++ {
				for i := 0; i < nPe; i++ {
					c.dNpg[p].Set(d, i, dN[d][i])
				}
			}
		}
	})
	return c, c.refErr
}

// VectorShape expands the scalar shape rows into the block form used to
// interpolate vector fields: [nPg] matrices of size rep x nPe*rep with
// each N_i replicated on rep interleaved diagonal slots.
func (g *ElementGroup) VectorShape(kind elements.MatrixKind, rep int) ([]utils.Matrix, error) {
	if rep < 1 {
		return nil, fmt.Errorf("%w: repetition %d", ErrDimensionMismatch, rep)
	}
	c, err := g.refQuantities(kind)
	if err != nil {
		return nil, err
	}
	var (
		nPg, nPe = c.nPg.Dims()
		out      = make([]utils.Matrix, nPg)
	)
	for p := 0; p < nPg; p++ {
		out[p] = utils.NewMatrix(rep, nPe*rep)
		for i := 0; i < nPe; i++ {
			v := c.nPg.At(p, i)
			for r := 0; r < rep; r++ {
				out[p].Set(r, i*rep+r, v)
			}
		}
	}
	return out, nil
}

// sysCoordLocal builds a per-element orthonormal frame (rows) for 1D
// and 2D elements embedded in 3-space, from edge vectors via
// Gram-Schmidt. For the group's own dimension 3 (or 0) the frame is the
// identity and is never needed.
func (g *ElementGroup) sysCoordLocal() ([]utils.Matrix, error) {
	var (
		dim    = g.Dim()
		frames = make([]utils.Matrix, g.Ne())
	)
	for e, row := range g.connect {
		p1 := g.nodeCoord(row[0])
		p2 := g.nodeCoord(row[1])
		i := utils.Normalize3(utils.Sub3(p2, p1))

		var j [3]float64
		if dim == 1 {
			// rotate i by pi/2 about z for the in-plane normal
			j = [3]float64{-i[1], i[0], i[2]}
			if n := utils.Norm3(j); n < 1e-14 {
				return nil, fmt.Errorf("%w: segment element %d aligned with z", ErrDegenerateElement, e)
			}
			j = utils.Normalize3(j)
		} else {
			// third corner: index 2 for triangles, 3 for quadrangles
			third := 2
			if g.etype == elements.Quad4 || g.etype == elements.Quad8 {
				third = 3
			}
			p3 := g.nodeCoord(row[third])
			v := utils.Sub3(p3, p1)
			d := utils.Dot3(v, i)
			j = [3]float64{v[0] - d*i[0], v[1] - d*i[1], v[2] - d*i[2]}
			if utils.Norm3(j) < 1e-14 {
				return nil, fmt.Errorf("%w: element %d has collinear edges", ErrDegenerateElement, e)
			}
			j = utils.Normalize3(j)
		}
		frames[e] = utils.NewMatrix(dim, 3)
		for k := 0; k < 3; k++ {
			frames[e].Set(0, k, i[k])
			if dim == 2 {
				frames[e].Set(1, k, j[k])
			}
		}
	}
	return frames, nil
}

func (g *ElementGroup) nodeCoord(n int) [3]float64 {
	return [3]float64{g.coordGlob.At(n, 0), g.coordGlob.At(n, 1), g.coordGlob.At(n, 2)}
}

// embedded reports whether a 1D/2D group uses coordinates beyond its
// own dimension, which forces the local-frame projection.
func (g *ElementGroup) embedded() bool {
	var (
		dim   = g.Dim()
		nn, _ = g.coord.Dims()
	)
	if dim == 0 || dim == 3 {
		return false
	}
	for i := 0; i < nn; i++ {
		for d := dim; d < 3; d++ {
			if g.coord.At(i, d) != 0 {
				return true
			}
		}
	}
	return false
}

// mapping computes F, det(F), inv(F) and the physical gradients for
// every element and quadrature point of kind, then memoizes them.
//
// Contractions, with axes e=element p=point i=row j=col:
//
//	F[e,p,i,j]    = sum over nodes n of dNpg[p][i,n] * x_e[n,j]
//	dNdx[e,p,i,j] = sum over k of invF[e,p,i,k] * dNpg[p][k,j]
func (g *ElementGroup) mapping(kind elements.MatrixKind) (*kindCache, error) {
	c, err := g.refQuantities(kind)
	if err != nil {
		return nil, err
	}
	gauss, _ := g.Gauss(kind)
	c.mapOnce.Do(func() {
		var (
			ne  = g.Ne()
			nPg = gauss.NPG()
			nPe = g.NPE()
			dim = g.Dim()
		)
		var frames []utils.Matrix
		if g.embedded() {
			if frames, c.mapErr = g.sysCoordLocal(); c.mapErr != nil {
				return
			}
		}

		c.f = utils.NewTensor4(ne, nPg, dim, dim)
		c.invF = utils.NewTensor4(ne, nPg, dim, dim)
		c.jac = utils.NewMatrix(ne, nPg)
		c.dNdx = utils.NewTensor4(ne, nPg, dim, nPe)

		xe := utils.NewMatrix(nPe, dim)
		for e := 0; e < ne; e++ {
			// element node coordinates restricted to the element's own
			// dimension, after projection into the local frame when the
			// group is embedded off-plane
			for n, node := range g.connect[e] {
				x := g.nodeCoord(node)
				if frames != nil {
					for d := 0; d < dim; d++ {
						xe.Set(n, d, x[0]*frames[e].At(d, 0)+x[1]*frames[e].At(d, 1)+x[2]*frames[e].At(d, 2))
					}
				} else {
					for d := 0; d < dim; d++ {
						xe.Set(n, d, x[d])
					}
				}
			}
			for p := 0; p < nPg; p++ {
				F := c.f.Block(e, p)
				for i := 0; i < dim; i++ {
					for j := 0; j < dim; j++ {
						var sum float64
						for n := 0; n < nPe; n++ { // sum over node axis
							sum += c.dNpg[p].At(i, n) * xe.At(n, j)
						}
						F.Set(i, j, sum)
					}
				}
				det := utils.Det(F)
				if det <= 0 || math.IsNaN(det) {
					c.mapErr = fmt.Errorf("%w: element tag %d point %d det=%g",
						ErrDegenerateElement, g.elemIDs[e], p, det)
					return
				}
				c.jac.Set(e, p, det)
				utils.InvertSmall(c.invF.Block(e, p), F, det)

				dx := c.dNdx.Block(e, p)
				inv := c.invF.Block(e, p)
				for i := 0; i < dim; i++ {
					for j := 0; j < nPe; j++ {
						var sum float64
						for k := 0; k < dim; k++ { // sum over natural axis
							sum += inv.At(i, k) * c.dNpg[p].At(k, j)
						}
						dx.Set(i, j, sum)
					}
				}
			}
		}
	})
	return c, c.mapErr
}

// F returns the mapping Jacobian matrices (e,p,dim,dim).
func (g *ElementGroup) F(kind elements.MatrixKind) (utils.Tensor4, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	return c.f, nil
}

// InvF returns the inverse mapping Jacobians (e,p,dim,dim).
func (g *ElementGroup) InvF(kind elements.MatrixKind) (utils.Tensor4, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	return c.invF, nil
}

// Jacobian returns det(F) per element and point, strictly positive.
func (g *ElementGroup) Jacobian(kind elements.MatrixKind) (utils.Matrix, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Matrix{}, err
	}
	return c.jac, nil
}

// PhysicalDerivs returns dN/dx at the quadrature points (e,p,dim,nPe).
func (g *ElementGroup) PhysicalDerivs(kind elements.MatrixKind) (utils.Tensor4, error) {
	c, err := g.mapping(kind)
	if err != nil {
		return utils.Tensor4{}, err
	}
	return c.dNdx, nil
}

// QuadCoords interpolates the physical coordinates of every quadrature
// point, (e,p,3).
func (g *ElementGroup) QuadCoords(kind elements.MatrixKind) (utils.Tensor3, error) {
	c, err := g.refQuantities(kind)
	if err != nil {
		return utils.Tensor3{}, err
	}
	var (
		nPg, _ = c.nPg.Dims()
		out    = utils.NewTensor3(g.Ne(), nPg, 3)
	)
	for e, row := range g.connect {
		for p := 0; p < nPg; p++ {
			dst := out.Row(e, p)
			for n, node := range row {
				x := g.nodeCoord(node)
				v := c.nPg.At(p, n)
				dst[0] += v * x[0]
				dst[1] += v * x[1]
				dst[2] += v * x[2]
			}
		}
	}
	return out, nil
}
