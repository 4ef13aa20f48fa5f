// Package mesher is the stand-in meshing collaborator: deterministic
// structured grids over simple domains for every supported topology,
// plus Delaunay triangulation of point lattices. A real study would
// import geometry through gmsh; the assembly core only ever sees the
// raw connectivity and coordinate tables produced here.
package mesher

import (
	"fmt"
	"math"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/mesh"
	"github.com/clavel/gofea/utils"
)

// nodePool interns lattice nodes on a half-step grid so only nodes
// actually referenced by elements reach the coordinate table.
type nodePool struct {
	h      [3]float64 // half-step sizes
	ids    map[[3]int]int
	coords [][3]float64
}

func newNodePool(hx, hy, hz float64) *nodePool {
	return &nodePool{h: [3]float64{hx, hy, hz}, ids: map[[3]int]int{}}
}

func (p *nodePool) at(i, j, k int) int {
	key := [3]int{i, j, k}
	if id, ok := p.ids[key]; ok {
		return id
	}
	id := len(p.coords)
	p.ids[key] = id
	p.coords = append(p.coords, [3]float64{
		float64(i) * p.h[0], float64(j) * p.h[1], float64(k) * p.h[2],
	})
	return id
}

func (p *nodePool) table() utils.Matrix {
	M := utils.NewMatrix(len(p.coords), 3)
	for i, c := range p.coords {
		M.Set(i, 0, c[0])
		M.Set(i, 1, c[1])
		M.Set(i, 2, c[2])
	}
	return M
}

func cells(length, size float64) int {
	n := int(math.Round(length / size))
	if n < 1 {
		n = 1
	}
	return n
}

// Rectangle meshes the [0,L]x[0,h] domain with the requested 2D
// topology at the given target element size. The mesh carries a
// boundary segment group (SEG2 for linear, SEG3 for quadratic
// topologies) so consumers can integrate line loads.
func Rectangle(L, h, size float64, et elements.ElemType) (*mesh.Mesh, error) {
	var (
		nx, ny = cells(L, size), cells(h, size)
		pool   = newNodePool(L/float64(nx)/2, h/float64(ny)/2, 1)
		conn   [][]int
		segs   [][]int
	)
	quadratic := et == elements.Tri6 || et == elements.Quad8

	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx < nx; cx++ {
			// half-step corner indices of this cell
			x0, y0 := 2*cx, 2*cy
			x1, y1 := x0+2, y0+2
			switch et {
			case elements.Tri3:
				conn = append(conn,
					[]int{pool.at(x0, y0, 0), pool.at(x1, y0, 0), pool.at(x1, y1, 0)},
					[]int{pool.at(x0, y0, 0), pool.at(x1, y1, 0), pool.at(x0, y1, 0)})
			case elements.Quad4:
				conn = append(conn, []int{
					pool.at(x0, y0, 0), pool.at(x1, y0, 0), pool.at(x1, y1, 0), pool.at(x0, y1, 0)})
			case elements.Tri6:
				// corners then mid-edge nodes m12, m23, m31
				conn = append(conn,
					[]int{
						pool.at(x0, y0, 0), pool.at(x1, y0, 0), pool.at(x1, y1, 0),
						pool.at(x0+1, y0, 0), pool.at(x1, y0+1, 0), pool.at(x0+1, y0+1, 0)},
					[]int{
						pool.at(x0, y0, 0), pool.at(x1, y1, 0), pool.at(x0, y1, 0),
						pool.at(x0+1, y0+1, 0), pool.at(x0+1, y1, 0), pool.at(x0, y0+1, 0)})
			case elements.Quad8:
				conn = append(conn, []int{
					pool.at(x0, y0, 0), pool.at(x1, y0, 0), pool.at(x1, y1, 0), pool.at(x0, y1, 0),
					pool.at(x0+1, y0, 0), pool.at(x1, y0+1, 0), pool.at(x0+1, y1, 0), pool.at(x0, y0+1, 0)})
			default:
				return nil, fmt.Errorf("%w: %v is not a 2D topology", elements.ErrUnsupportedTopology, et)
			}
		}
	}

	// boundary segments, counterclockwise around the rectangle
	addSeg := func(ax0, ay0, ax1, ay1 int) {
		if quadratic {
			segs = append(segs, []int{
				pool.at(ax0, ay0, 0), pool.at(ax1, ay1, 0),
				pool.at((ax0+ax1)/2, (ay0+ay1)/2, 0)})
		} else {
			segs = append(segs, []int{pool.at(ax0, ay0, 0), pool.at(ax1, ay1, 0)})
		}
	}
	for cx := 0; cx < nx; cx++ {
		addSeg(2*cx, 0, 2*cx+2, 0)
		addSeg(2*cx+2, 2*ny, 2*cx, 2*ny)
	}
	for cy := 0; cy < ny; cy++ {
		addSeg(2*nx, 2*cy, 2*nx, 2*cy+2)
		addSeg(0, 2*cy+2, 0, 2*cy)
	}

	segType := elements.Seg2
	if quadratic {
		segType = elements.Seg3
	}
	coords := pool.table()
	principal, err := mesh.NewElementGroup(et, conn, nil, coords)
	if err != nil {
		return nil, err
	}
	boundary, err := mesh.NewElementGroup(segType, segs, nil, coords)
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(principal, boundary)
}

// Box meshes the [0,L]x[0,h]x[0,b] volume with the requested 3D
// topology.
func Box(L, h, b, size float64, et elements.ElemType) (*mesh.Mesh, error) {
	var (
		nx, ny, nz = cells(L, size), cells(h, size), cells(b, size)
		pool       = newNodePool(L/float64(nx)/2, h/float64(ny)/2, b/float64(nz)/2)
		conn       [][]int
	)
	for cz := 0; cz < nz; cz++ {
		for cy := 0; cy < ny; cy++ {
			for cx := 0; cx < nx; cx++ {
				var (
					x0, y0, z0 = 2 * cx, 2 * cy, 2 * cz
					x1, y1, z1 = x0 + 2, y0 + 2, z0 + 2
					// cell corners, bottom face counterclockwise then top
					v = [8]int{
						pool.at(x0, y0, z0), pool.at(x1, y0, z0), pool.at(x1, y1, z0), pool.at(x0, y1, z0),
						pool.at(x0, y0, z1), pool.at(x1, y0, z1), pool.at(x1, y1, z1), pool.at(x0, y1, z1),
					}
				)
				switch et {
				case elements.Hexa8:
					conn = append(conn, v[:])
				case elements.Tetra4:
					// six positively oriented tetrahedra around the 0-6 diagonal
					for _, tet := range [][4]int{
						{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
						{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
					} {
						conn = append(conn, []int{v[tet[0]], v[tet[1]], v[tet[2]], v[tet[3]]})
					}
				case elements.Prism6:
					// two wedges per cell, extruded along z; triangle must
					// stay counterclockwise for a positive determinant
					conn = append(conn,
						[]int{v[0], v[1], v[2], v[4], v[5], v[6]},
						[]int{v[0], v[2], v[3], v[4], v[6], v[7]})
				default:
					return nil, fmt.Errorf("%w: %v is not a 3D topology", elements.ErrUnsupportedTopology, et)
				}
			}
		}
	}
	principal, err := mesh.NewElementGroup(et, conn, nil, pool.table())
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(principal)
}

// Segment meshes [0,L] on the x axis with ne elements.
func Segment(L float64, ne int, et elements.ElemType) (*mesh.Mesh, error) {
	if ne < 1 {
		return nil, fmt.Errorf("need at least one element, got %d", ne)
	}
	var (
		pool = newNodePool(L/float64(ne)/2, 1, 1)
		conn [][]int
	)
	for e := 0; e < ne; e++ {
		x0 := 2 * e
		switch et {
		case elements.Seg2:
			conn = append(conn, []int{pool.at(x0, 0, 0), pool.at(x0+2, 0, 0)})
		case elements.Seg3:
			conn = append(conn, []int{pool.at(x0, 0, 0), pool.at(x0+2, 0, 0), pool.at(x0+1, 0, 0)})
		default:
			return nil, fmt.Errorf("%w: %v is not a 1D topology", elements.ErrUnsupportedTopology, et)
		}
	}
	principal, err := mesh.NewElementGroup(et, conn, nil, pool.table())
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(principal)
}
