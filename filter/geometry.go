package filter

import "math"

// RegionBuffer is the tolerance, in page units, added on every side of a region
// before membership tests.
const RegionBuffer = 25.0

const (
	// Half-width of the angular bands around the two axes.
	orientationBand = 15.0
	// Segments thinner than this along one axis are treated as axis-aligned.
	degenerateExtent = 1.0
)

// SegmentInRegion reports whether the segment p1-p2 touches the buffered region.
func SegmentInRegion(p1, p2 Point, region Rect) bool {
	expanded := region.Expand(RegionBuffer)

	if expanded.Contains(p1) || expanded.Contains(p2) {
		return true
	}

	// Cheap rejection before the exact test.
	if !(LineSegment{P1: p1, P2: p2}).Bounds().Overlaps(expanded) {
		return false
	}

	// Both endpoints are outside, so the segment meets the rectangle only by crossing an edge.
	corners := [4]Point{
		{X: expanded.X0, Y: expanded.Y0},
		{X: expanded.X1, Y: expanded.Y0},
		{X: expanded.X1, Y: expanded.Y1},
		{X: expanded.X0, Y: expanded.Y1},
	}
	for i := range corners {
		if segmentsIntersect(p1, p2, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

// BBoxOverlapsRegion reports whether a text bounding box overlaps the buffered region.
func BBoxOverlapsRegion(bbox, region Rect) bool {
	return region.Expand(RegionBuffer).Overlaps(bbox)
}

// segmentsIntersect is the classic orientation test, collinear touching included.
func segmentsIntersect(a, b, c, d Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(c, d, a):
		return true
	case d2 == 0 && onSegment(c, d, b):
		return true
	case d3 == 0 && onSegment(a, b, c):
		return true
	case d4 == 0 && onSegment(a, b, d):
		return true
	}
	return false
}

// cross returns the z component of (b-a) x (p-a).
func cross(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// onSegment reports whether p, known to be collinear with a-b, lies within its extent.
func onSegment(a, b, p Point) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// OrientationOf classifies a line as horizontal, vertical or diagonal.
//
// An explicit angle is read as degrees from the vertical axis: within 15 of 0/180
// is vertical, strictly within 15 of 90 is horizontal. Without an angle, one is
// derived from the endpoints in the same convention.
func OrientationOf(p1, p2 Point, angle *float64) Orientation {
	if angle != nil {
		return orientationFromAngle(*angle)
	}

	dx := math.Abs(p2.X - p1.X)
	dy := math.Abs(p2.Y - p1.Y)
	if dy < degenerateExtent {
		return Horizontal
	}
	if dx < degenerateExtent {
		return Vertical
	}
	return orientationFromAngle(math.Atan2(dx, dy) * 180 / math.Pi)
}

func orientationFromAngle(deg float64) Orientation {
	normalized := math.Mod(deg, 180)
	if normalized < 0 {
		normalized += 180
	}
	switch {
	case normalized < orientationBand || normalized > 180-orientationBand:
		return Vertical
	case normalized > 90-orientationBand && normalized < 90+orientationBand:
		return Horizontal
	default:
		return Diagonal
	}
}
