package filter

import (
	"math"
	"strings"
)

// DrawingType is the page-level (or region-level) category of an architectural drawing.
type DrawingType string

const (
	Plattegrond               DrawingType = "plattegrond"
	Doorsnede                 DrawingType = "doorsnede"
	Gevelaanzicht             DrawingType = "gevelaanzicht"
	Detailtekening            DrawingType = "detailtekening"
	DetailtekeningKozijn      DrawingType = "detailtekening_kozijn"
	DetailtekeningPlattegrond DrawingType = "detailtekening_plattegrond"
	Bestektekening            DrawingType = "bestektekening"
	Installatietekening       DrawingType = "installatietekening"
	Unknown                   DrawingType = "unknown"
)

var knownDrawingTypes = []DrawingType{
	Plattegrond,
	Doorsnede,
	Gevelaanzicht,
	Detailtekening,
	DetailtekeningKozijn,
	DetailtekeningPlattegrond,
	Bestektekening,
	Installatietekening,
	Unknown,
}

// ParseDrawingType maps a free-form drawing type string onto the closed set.
// Anything unrecognized becomes Unknown, which selects the default rules.
func ParseDrawingType(s string) DrawingType {
	candidate := DrawingType(strings.ToLower(strings.TrimSpace(s)))
	for _, dt := range knownDrawingTypes {
		if dt == candidate {
			return dt
		}
	}
	return Unknown
}

// Orientation is the coarse direction category of a line.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
	Diagonal   Orientation = "diagonal"
)

// Point is a position in page space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle with X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewRect builds a rectangle from two opposite corners in any order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Expand grows the rectangle by margin on every side
func (r Rect) Expand(margin float64) Rect {
	return Rect{X0: r.X0 - margin, Y0: r.Y0 - margin, X1: r.X1 + margin, Y1: r.Y1 + margin}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Overlaps reports whether two rectangles share any point. Touching edges overlap.
func (r Rect) Overlaps(other Rect) bool {
	return !(other.X1 < r.X0 ||
		other.X0 > r.X1 ||
		other.Y1 < r.Y0 ||
		other.Y0 > r.Y1)
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// LineSegment is a stroked line taken from a vector drawing page.
type LineSegment struct {
	P1          Point
	P2          Point
	StrokeWidth float64
	// Length as reported by the extractor. Zero means unknown, see EffectiveLength.
	Length float64
	// Angle in degrees, when the extractor supplied one.
	Angle  *float64
	Dashed bool
	Color  []int
}

// Midpoint returns the point halfway between the endpoints
func (l LineSegment) Midpoint() Point {
	return Point{X: (l.P1.X + l.P2.X) / 2, Y: (l.P1.Y + l.P2.Y) / 2}
}

// EffectiveLength returns Length, or the endpoint distance when no length was supplied.
func (l LineSegment) EffectiveLength() float64 {
	if l.Length > 0 {
		return l.Length
	}
	return l.P1.Distance(l.P2)
}

// Bounds returns the bounding box of the segment
func (l LineSegment) Bounds() Rect {
	return NewRect(l.P1.X, l.P1.Y, l.P2.X, l.P2.Y)
}

// TextLabel is a pre-extracted text run with its bounding box.
type TextLabel struct {
	Text     string
	Position Point
	BBox     Rect
	FontSize *float64
}

// PageSize holds the page dimensions in page units.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Page is a single normalized drawing page.
//
// A nil Lines or Texts slice means the input had no such array at all and is
// rejected as malformed; empty slices are fine.
type Page struct {
	Size  PageSize
	Lines []LineSegment
	Texts []TextLabel
}

// Region is a labeled area of interest produced by an upstream detector.
type Region struct {
	Label string
	Block Rect
}

// FilteredLine is the output projection of a retained line.
type FilteredLine struct {
	Length      float64     `json:"length"`
	Orientation Orientation `json:"orientation"`
	Midpoint    Point       `json:"midpoint"`
}

// FilteredText is the output projection of a retained dimension text.
type FilteredText struct {
	Text     string `json:"text"`
	Midpoint Point  `json:"midpoint"`
}

// RegionStats counts what happened inside one region. Only filled in debug mode.
type RegionStats struct {
	LinesInRegion int `json:"lines_in_region"`
	LinesIncluded int `json:"lines_included"`
	TextsInRegion int `json:"texts_in_region"`
	TextsIncluded int `json:"texts_included"`
}

// RegionResult is the filtered content of one region.
type RegionResult struct {
	Label             string         `json:"label"`
	Lines             []FilteredLine `json:"lines"`
	Texts             []FilteredText `json:"texts"`
	ParsedDrawingType *DrawingType   `json:"parsed_drawing_type,omitempty"`
	Stats             *RegionStats   `json:"stats,omitempty"`
}

// Result is the complete per-region output for one page.
type Result struct {
	DrawingType string         `json:"drawing_type"`
	Regions     []RegionResult `json:"regions"`
}
