package mesh

import (
	"math"

	"github.com/clavel/gofea/geom"
	"github.com/clavel/gofea/utils"
)

const eps = 2.220446049250313e-16

// NodesWhere returns the global indices of group nodes satisfying the
// coordinate predicate.
func (g *ElementGroup) NodesWhere(pred func(x, y, z float64) bool) (nodes []int) {
	var (
		nn, _ = g.coord.Dims()
	)
	for i := 0; i < nn; i++ {
		if pred(g.coord.At(i, 0), g.coord.At(i, 1), g.coord.At(i, 2)) {
			nodes = append(nodes, g.nodeIDs[i])
		}
	}
	return
}

// NodesAtPoint returns the nodes matching the point coordinates exactly.
func (g *ElementGroup) NodesAtPoint(p geom.Point) []int {
	return g.NodesWhere(func(x, y, z float64) bool {
		return x == p.X && y == p.Y && z == p.Z
	})
}

// NodesOnLine returns the nodes lying on the segment, using the
// cross-product perpendicular distance and the scalar projection
// confined to [0, length]. The tolerance scales with the segment
// length so that rounding in coordinates of magnitude ~length still
// passes.
func (g *ElementGroup) NodesOnLine(l geom.Line) []int {
	var (
		u      = l.UnitVector()
		length = l.Length()
		o      = l.P1.Coords()
		tol    = 64 * eps * math.Max(1, length)
	)
	return g.NodesWhere(func(x, y, z float64) bool {
		v := [3]float64{x - o[0], y - o[1], z - o[2]}
		proj := utils.Dot3(u, v)
		perp := utils.Norm3(utils.Cross(v, u))
		return perp < tol && proj >= -tol && proj <= length+tol
	})
}

// NodesInDomain returns the nodes inside the axis-aligned box.
func (g *ElementGroup) NodesInDomain(d geom.Domain) []int {
	return g.NodesWhere(d.Contains)
}

// NodesInCircle returns the nodes within the sphere of the circle's
// center and diameter.
func (g *ElementGroup) NodesInCircle(c geom.Circle) []int {
	var (
		o = c.Center.Coords()
		r = c.Diam / 2
	)
	return g.NodesWhere(func(x, y, z float64) bool {
		dx, dy, dz := x-o[0], y-o[1], z-o[2]
		return math.Sqrt(dx*dx+dy*dy+dz*dz) <= r+eps
	})
}
