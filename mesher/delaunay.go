package mesher

import (
	"fmt"

	"github.com/pradeep-pyro/triangle"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/mesh"
	"github.com/clavel/gofea/utils"
)

// DelaunayRectangle triangulates a point lattice over [0,L]x[0,h] with
// Shewchuk's Triangle and returns the resulting TRI3 mesh. Unlike
// Rectangle it makes no promise about element layout, only that the
// union of positively oriented triangles covers the domain.
func DelaunayRectangle(L, h, size float64) (*mesh.Mesh, error) {
	var (
		nx, ny = cells(L, size), cells(h, size)
		dx, dy = L / float64(nx), h / float64(ny)
		pts    = make([][2]float64, 0, (nx+1)*(ny+1))
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			pts = append(pts, [2]float64{float64(i) * dx, float64(j) * dy})
		}
	}
	return DelaunayPoints(pts)
}

// DelaunayPoints triangulates an arbitrary planar point cloud.
func DelaunayPoints(pts [][2]float64) (*mesh.Mesh, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("delaunay needs at least 3 points, got %d", len(pts))
	}
	tris := triangle.Delaunay(pts)
	if len(tris) == 0 {
		return nil, fmt.Errorf("delaunay produced no triangles from %d points", len(pts))
	}

	coords := utils.NewMatrix(len(pts), 3)
	for i, p := range pts {
		coords.Set(i, 0, p[0])
		coords.Set(i, 1, p[1])
	}
	conn := make([][]int, len(tris))
	for e, tri := range tris {
		var (
			a, b, c = int(tri[0]), int(tri[1]), int(tri[2])
		)
		// enforce counterclockwise winding
		if signedArea(pts[a], pts[b], pts[c]) < 0 {
			b, c = c, b
		}
		conn[e] = []int{a, b, c}
	}
	principal, err := mesh.NewElementGroup(elements.Tri3, conn, nil, coords)
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(principal)
}

func signedArea(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
