package color

import "math"

// cross returns the z component of the cross product of two 2D vectors.
func cross(p1, p2 XYPoint) float64 {
	return p1.X*p2.Y - p1.Y*p2.X
}

// PointInTriangle reports whether p lies inside or on the edge of the gamut.
// A zero-area gamut contains nothing.
func PointInTriangle(g Gamut, p XYPoint) bool {
	v1 := XYPoint{g.Lime.X - g.Red.X, g.Lime.Y - g.Red.Y}
	v2 := XYPoint{g.Blue.X - g.Red.X, g.Blue.Y - g.Red.Y}
	q := XYPoint{p.X - g.Red.X, p.Y - g.Red.Y}

	d := cross(v1, v2)
	if d == 0 {
		return false
	}

	s := cross(q, v2) / d
	t := cross(v1, q) / d

	return s >= 0.0 && t >= 0.0 && s+t <= 1.0
}

// ClosestPointOnSegment projects p onto segment ab. A projection beyond
// either end returns that endpoint exactly.
func ClosestPointOnSegment(a, b, p XYPoint) XYPoint {
	ap := XYPoint{p.X - a.X, p.Y - a.Y}
	ab := XYPoint{b.X - a.X, b.Y - a.Y}

	ab2 := ab.X*ab.X + ab.Y*ab.Y
	if ab2 == 0 {
		return a
	}

	t := (ap.X*ab.X + ap.Y*ab.Y) / ab2
	switch {
	case t <= 0.0:
		return a
	case t >= 1.0:
		return b
	}

	return XYPoint{a.X + ab.X*t, a.Y + ab.Y*t}
}

// ClosestPointOnTriangleBoundary returns the point on the gamut edges
// nearest to p. Edges are checked red-lime, blue-red, lime-blue and the
// first of equally distant candidates wins.
func ClosestPointOnTriangleBoundary(g Gamut, p XYPoint) XYPoint {
	candidates := [3]XYPoint{
		ClosestPointOnSegment(g.Red, g.Lime, p),
		ClosestPointOnSegment(g.Blue, g.Red, p),
		ClosestPointOnSegment(g.Lime, g.Blue, p),
	}

	closest := candidates[0]
	lowest := Distance(p, closest)
	for _, c := range candidates[1:] {
		if d := Distance(p, c); d < lowest {
			lowest = d
			closest = c
		}
	}

	return closest
}

// Distance returns the Euclidean distance between two points.
func Distance(p, q XYPoint) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// clampToGamut moves p onto the gamut boundary if it is outside.
func clampToGamut(g Gamut, p XYPoint) XYPoint {
	if PointInTriangle(g, p) {
		return p
	}
	return ClosestPointOnTriangleBoundary(g, p)
}
