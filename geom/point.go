// Package geom holds the geometric primitives handed to the meshing
// collaborator and used for node selection predicates.
package geom

import "math"

// Point is an immutable coordinate value. R is an optional fillet
// radius consumed by the mesher; Open marks crack-tip points whose
// mesh nodes may be duplicated to carry a discontinuity.
type Point struct {
	X, Y, Z float64
	R       float64
	Open    bool
}

func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (p Point) Coords() [3]float64 { return [3]float64{p.X, p.Y, p.Z} }

func (p Point) Translate(dx, dy, dz float64) Point {
	p.X += dx
	p.Y += dy
	p.Z += dz
	return p
}

// Rotate turns p by theta (radians) about an axis through center along
// direction, using the Rodrigues formula.
func (p Point) Rotate(theta float64, center Point, direction [3]float64) Point {
	var (
		n       = normalize(direction)
		c, s    = math.Cos(theta), math.Sin(theta)
		v       = [3]float64{p.X - center.X, p.Y - center.Y, p.Z - center.Z}
		cross   = [3]float64{n[1]*v[2] - n[2]*v[1], n[2]*v[0] - n[0]*v[2], n[0]*v[1] - n[1]*v[0]}
		dot     = n[0]*v[0] + n[1]*v[1] + n[2]*v[2]
		rotated [3]float64
	)
	for i := 0; i < 3; i++ {
		rotated[i] = v[i]*c + cross[i]*s + n[i]*dot*(1-c)
	}
	p.X = center.X + rotated[0]
	p.Y = center.Y + rotated[1]
	p.Z = center.Z + rotated[2]
	return p
}

// Reflect mirrors p across the plane through origin with normal n.
func (p Point) Reflect(origin Point, n [3]float64) Point {
	var (
		u = normalize(n)
		v = [3]float64{p.X - origin.X, p.Y - origin.Y, p.Z - origin.Z}
	)
	d := v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
	p.X -= 2 * d * u[0]
	p.Y -= 2 * d * u[1]
	p.Z -= 2 * d * u[2]
	return p
}

func (p Point) Sub(q Point) [3]float64 {
	return [3]float64{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

func (p Point) DistanceTo(q Point) float64 {
	d := p.Sub(q)
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}

func normalize(v [3]float64) (u [3]float64) {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		panic("cannot normalize a zero direction")
	}
	u[0], u[1], u[2] = v[0]/n, v[1]/n, v[2]/n
	return
}
