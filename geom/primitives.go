package geom

import "math"

// Primitive is what the meshing collaborator consumes: a closed or open
// set of points with a measurable perimeter. Hollow primitives become
// holes; Open ones carry crack faces into the mesh.
type Primitive interface {
	Points() []Point
	Perimeter() float64
	IsHollow() bool
	IsOpen() bool
}

// Line is the segment from P1 to P2.
type Line struct {
	P1, P2 Point
	Open   bool
}

func NewLine(p1, p2 Point) Line { return Line{P1: p1, P2: p2} }

func (l Line) Points() []Point    { return []Point{l.P1, l.P2} }
func (l Line) Perimeter() float64 { return l.Length() }
func (l Line) IsHollow() bool     { return false }
func (l Line) IsOpen() bool       { return l.Open }

func (l Line) Length() float64 {
	return l.P1.DistanceTo(l.P2)
}

// UnitVector returns the normalized direction from P1 to P2.
func (l Line) UnitVector() [3]float64 {
	d := l.P2.Sub(l.P1)
	return normalize(d)
}

// Circle is a full circle of the given diameter.
type Circle struct {
	Center Point
	Diam   float64
	Hollow bool
	Open   bool
}

func NewCircle(center Point, diam float64) Circle {
	return Circle{Center: center, Diam: diam}
}

func (c Circle) Points() []Point    { return []Point{c.Center} }
func (c Circle) Perimeter() float64 { return math.Pi * c.Diam }
func (c Circle) IsHollow() bool     { return c.Hollow }
func (c Circle) IsOpen() bool       { return c.Open }

// CircleArc is the arc from P1 to P2 passing through P3.
type CircleArc struct {
	Center     Point
	P1, P2, P3 Point
	Open       bool
}

func (a CircleArc) Points() []Point { return []Point{a.P1, a.P3, a.P2} }
func (a CircleArc) IsHollow() bool  { return false }
func (a CircleArc) IsOpen() bool    { return a.Open }

func (a CircleArc) Radius() float64 { return a.Center.DistanceTo(a.P1) }

func (a CircleArc) Perimeter() float64 {
	var (
		r  = a.Radius()
		u  = a.P1.Sub(a.Center)
		v  = a.P2.Sub(a.Center)
		du = normalize(u)
		dv = normalize(v)
	)
	angle := math.Acos(du[0]*dv[0] + du[1]*dv[1] + du[2]*dv[2])
	return r * angle
}

// Domain is the axis-aligned box spanned by two corner points.
type Domain struct {
	P1, P2 Point
}

func NewDomain(p1, p2 Point) Domain { return Domain{P1: p1, P2: p2} }

func (d Domain) Points() []Point { return []Point{d.P1, d.P2} }
func (d Domain) IsHollow() bool  { return false }
func (d Domain) IsOpen() bool    { return false }

func (d Domain) Perimeter() float64 {
	dx := math.Abs(d.P2.X - d.P1.X)
	dy := math.Abs(d.P2.Y - d.P1.Y)
	return 2 * (dx + dy)
}

// Contains reports box membership with a machine-epsilon margin.
func (d Domain) Contains(x, y, z float64) bool {
	eps := machineEps
	return x >= math.Min(d.P1.X, d.P2.X)-eps && x <= math.Max(d.P1.X, d.P2.X)+eps &&
		y >= math.Min(d.P1.Y, d.P2.Y)-eps && y <= math.Max(d.P1.Y, d.P2.Y)+eps &&
		z >= math.Min(d.P1.Z, d.P2.Z)-eps && z <= math.Max(d.P1.Z, d.P2.Z)+eps
}

// PointsList is an open or closed polyline through its points.
type PointsList struct {
	Pts    []Point
	Hollow bool
	Open   bool
}

func (pl PointsList) Points() []Point { return pl.Pts }
func (pl PointsList) IsHollow() bool  { return pl.Hollow }
func (pl PointsList) IsOpen() bool    { return pl.Open }

func (pl PointsList) Perimeter() (l float64) {
	for i := 1; i < len(pl.Pts); i++ {
		l += pl.Pts[i-1].DistanceTo(pl.Pts[i])
	}
	return
}

// Contour strings primitives end to end into a closed boundary.
type Contour struct {
	Members []Primitive
	Hollow  bool
	Open    bool
}

func (c Contour) Points() (pts []Point) {
	for _, m := range c.Members {
		pts = append(pts, m.Points()...)
	}
	return
}

func (c Contour) IsHollow() bool { return c.Hollow }
func (c Contour) IsOpen() bool   { return c.Open }

func (c Contour) Perimeter() (l float64) {
	for _, m := range c.Members {
		l += m.Perimeter()
	}
	return
}

const machineEps = 2.220446049250313e-16
