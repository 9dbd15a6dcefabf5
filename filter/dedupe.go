package filter

import "math"

// DuplicateTolerance is the per-coordinate distance below which two endpoints are the same.
const DuplicateTolerance = 1.0

// Dedupe drops lines whose endpoints match an earlier line within DuplicateTolerance,
// in either direction. Input order is preserved and the first occurrence wins.
//
// Every candidate is compared with every accepted line. Page line counts stay in the
// low thousands; a grid keyed on rounded endpoints is the way out if that changes.
func Dedupe(lines []LineSegment) []LineSegment {
	unique := make([]LineSegment, 0, len(lines))
	for _, line := range lines {
		duplicate := false
		for _, kept := range unique {
			if sameSegment(line, kept) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, line)
		}
	}
	return unique
}

func sameSegment(a, b LineSegment) bool {
	forward := samePoint(a.P1, b.P1) && samePoint(a.P2, b.P2)
	reverse := samePoint(a.P1, b.P2) && samePoint(a.P2, b.P1)
	return forward || reverse
}

func samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < DuplicateTolerance && math.Abs(a.Y-b.Y) < DuplicateTolerance
}
