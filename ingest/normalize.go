package ingest

import (
	"fmt"

	"drawing-filter/filter"
)

const (
	defaultPageWidth   = 595.0
	defaultPageHeight  = 842.0
	defaultStrokeWidth = 1.0
)

// Normalized is a filter request reduced to what the pipeline consumes.
type Normalized struct {
	Page        filter.Page
	DrawingType string
	Regions     []filter.Region
	// IgnoredPages counts pages after the first, which are not processed.
	IgnoredPages int
}

// Normalize converts the wire request into pipeline input. Only the first page is used.
// Shape problems are reported as filter.ErrMalformedInput.
func (r *FilterRequest) Normalize() (*Normalized, error) {
	if len(r.VectorData.Pages) == 0 {
		return nil, fmt.Errorf("%w: no pages in vector_data", filter.ErrMalformedInput)
	}

	page, err := r.VectorData.Pages[0].toPage()
	if err != nil {
		return nil, err
	}

	regions, err := r.VisionOutput.toRegions()
	if err != nil {
		return nil, err
	}

	return &Normalized{
		Page:         page,
		DrawingType:  r.VisionOutput.DrawingType,
		Regions:      regions,
		IgnoredPages: len(r.VectorData.Pages) - 1,
	}, nil
}

func (vp VectorPage) toPage() (filter.Page, error) {
	page := filter.Page{
		Size: filter.PageSize{Width: defaultPageWidth, Height: defaultPageHeight},
	}
	if w, ok := vp.PageSize["width"]; ok {
		page.Size.Width = w
	}
	if h, ok := vp.PageSize["height"]; ok {
		page.Size.Height = h
	}

	// A missing array stays nil so the pipeline can reject the page.
	if vp.Lines != nil {
		page.Lines = make([]filter.LineSegment, 0, len(vp.Lines))
		for i, vl := range vp.Lines {
			line, err := vl.toLineSegment()
			if err != nil {
				return filter.Page{}, fmt.Errorf("line %d: %w", i, err)
			}
			page.Lines = append(page.Lines, line)
		}
	}

	if vp.Texts != nil {
		page.Texts = make([]filter.TextLabel, 0, len(vp.Texts))
		for i, vt := range vp.Texts {
			label, err := vt.toTextLabel()
			if err != nil {
				return filter.Page{}, fmt.Errorf("text %d: %w", i, err)
			}
			page.Texts = append(page.Texts, label)
		}
	}

	return page, nil
}

func (vl VectorLine) toLineSegment() (filter.LineSegment, error) {
	p1, err := toPoint(vl.P1, "p1")
	if err != nil {
		return filter.LineSegment{}, err
	}
	p2, err := toPoint(vl.P2, "p2")
	if err != nil {
		return filter.LineSegment{}, err
	}

	stroke := defaultStrokeWidth
	if vl.StrokeWidth != nil {
		stroke = *vl.StrokeWidth
	}

	length := 0.0
	if vl.Length != nil {
		length = *vl.Length
	}
	if length == 0 {
		length = p1.Distance(p2)
	}

	color := vl.Color
	if color == nil {
		color = []int{0, 0, 0}
	}

	return filter.LineSegment{
		P1:          p1,
		P2:          p2,
		StrokeWidth: stroke,
		Length:      length,
		Angle:       vl.Angle,
		Dashed:      vl.IsDashed,
		Color:       color,
	}, nil
}

func (vt VectorText) toTextLabel() (filter.TextLabel, error) {
	if len(vt.BoundingBox) < 4 {
		return filter.TextLabel{}, fmt.Errorf("%w: bounding_box needs 4 values, got %d", filter.ErrMalformedInput, len(vt.BoundingBox))
	}
	bbox := filter.NewRect(vt.BoundingBox[0], vt.BoundingBox[1], vt.BoundingBox[2], vt.BoundingBox[3])

	position := filter.Point{X: bbox.X0, Y: bbox.Y0}
	if len(vt.Position) >= 2 {
		position = filter.Point{X: vt.Position[0], Y: vt.Position[1]}
	}

	return filter.TextLabel{
		Text:     vt.Text,
		Position: position,
		BBox:     bbox,
		FontSize: vt.FontSize,
	}, nil
}

func (vo VisionOutput) toRegions() ([]filter.Region, error) {
	regions := make([]filter.Region, 0, len(vo.Regions))
	for i, vr := range vo.Regions {
		if len(vr.CoordinateBlock) != 4 {
			return nil, fmt.Errorf("%w: region %d (%q): coordinate_block needs 4 values, got %d",
				filter.ErrMalformedInput, i, vr.Label, len(vr.CoordinateBlock))
		}
		b := vr.CoordinateBlock
		regions = append(regions, filter.Region{
			Label: vr.Label,
			Block: filter.NewRect(b[0], b[1], b[2], b[3]),
		})
	}
	return regions, nil
}

func toPoint(coords []float64, name string) (filter.Point, error) {
	if len(coords) < 2 {
		return filter.Point{}, fmt.Errorf("%w: %s needs 2 values, got %d", filter.ErrMalformedInput, name, len(coords))
	}
	return filter.Point{X: coords[0], Y: coords[1]}, nil
}
