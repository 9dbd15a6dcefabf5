package ingest

import (
	"fmt"
	"math"

	"drawing-filter/filter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the ingest package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// NormalizeVectorAPI converts raw Vector Drawing API output into VectorData.
//
// The upstream is loose about shapes: points and boxes come as objects or arrays,
// numbers may be strings, and lines live under one of several keys. The first
// location that holds anything wins.
func NormalizeVectorAPI(raw map[string]any) (*VectorData, error) {
	rawPages, err := cast.ToSliceE(raw["pages"])
	if err != nil || len(rawPages) == 0 {
		return nil, fmt.Errorf("%w: no pages found in vector data", filter.ErrMalformedInput)
	}
	log.Debugf("Found %d pages", len(rawPages))

	data := &VectorData{PageNumber: 1, Pages: make([]VectorPage, 0, len(rawPages))}
	totalLines, totalTexts := 0, 0
	for i, rp := range rawPages {
		pageData, err := cast.ToStringMapE(rp)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d is not an object", filter.ErrMalformedInput, i)
		}
		page, err := convertPage(pageData)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		totalLines += len(page.Lines)
		totalTexts += len(page.Texts)
		data.Pages = append(data.Pages, page)
	}

	log.WithFields(logrus.Fields{
		"pages": len(data.Pages),
		"lines": totalLines,
		"texts": totalTexts,
	}).Info("Converted Vector Drawing API data")
	return data, nil
}

func convertPage(pageData map[string]any) (VectorPage, error) {
	page := VectorPage{
		PageSize: map[string]float64{"width": defaultPageWidth, "height": defaultPageHeight},
		Lines:    []VectorLine{},
		Texts:    []VectorText{},
	}

	if rawSize, ok := pageData["page_size"]; ok {
		size, err := cast.ToStringMapE(rawSize)
		if err != nil {
			return VectorPage{}, fmt.Errorf("%w: page_size: %v", filter.ErrMalformedInput, err)
		}
		page.PageSize = make(map[string]float64, len(size))
		for k, v := range size {
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return VectorPage{}, fmt.Errorf("%w: page_size.%s: %v", filter.ErrMalformedInput, k, err)
			}
			page.PageSize[k] = f
		}
	}

	var rawTexts []any
	if v, ok := pageData["texts"]; ok && v != nil {
		var err error
		if rawTexts, err = cast.ToSliceE(v); err != nil {
			return VectorPage{}, fmt.Errorf("%w: texts is not an array", filter.ErrMalformedInput)
		}
	}
	log.Debugf("Found %d texts", len(rawTexts))
	for i, rt := range rawTexts {
		textData, err := cast.ToStringMapE(rt)
		if err != nil {
			return VectorPage{}, fmt.Errorf("%w: text %d is not an object", filter.ErrMalformedInput, i)
		}
		text, err := convertText(textData)
		if err != nil {
			return VectorPage{}, fmt.Errorf("text %d: %w", i, err)
		}
		page.Texts = append(page.Texts, text)
	}

	found := false
	for idx, candidates := range lineLocations(pageData) {
		if len(candidates) == 0 {
			continue
		}
		log.Debugf("Found %d lines in location %d", len(candidates), idx)
		found = true
		for i, candidate := range candidates {
			lineData, ok := candidate.(map[string]any)
			if !ok {
				continue
			}
			_, hasP1 := lineData["p1"]
			if cast.ToString(lineData["type"]) != "line" && !hasP1 {
				continue
			}
			line, err := convertLine(lineData)
			if err != nil {
				return VectorPage{}, fmt.Errorf("line %d: %w", i, err)
			}
			page.Lines = append(page.Lines, line)
		}
		break
	}
	if !found {
		log.Warn("No lines found in any expected location")
	}

	return page, nil
}

// lineLocations lists the places lines may live, in priority order:
// drawings.lines, lines, paths, elements, and drawings itself when it is an array.
func lineLocations(pageData map[string]any) [][]any {
	var drawingLines []any
	if drawings, ok := pageData["drawings"].(map[string]any); ok {
		drawingLines, _ = cast.ToSliceE(drawings["lines"])
	}
	lines, _ := cast.ToSliceE(pageData["lines"])
	paths, _ := cast.ToSliceE(pageData["paths"])
	elements, _ := cast.ToSliceE(pageData["elements"])

	locations := [][]any{drawingLines, lines, paths, elements}
	if drawings, ok := pageData["drawings"].([]any); ok {
		locations = append(locations, drawings)
	}
	return locations
}

func convertText(textData map[string]any) (VectorText, error) {
	position, err := pointValues(textData["position"])
	if err != nil {
		return VectorText{}, fmt.Errorf("position: %w", err)
	}
	bbox, err := bboxValues(textData["bbox"])
	if err != nil {
		return VectorText{}, fmt.Errorf("bbox: %w", err)
	}

	fontSize := 12.0
	if v, ok := textData["font_size"]; ok && v != nil {
		if fontSize, err = cast.ToFloat64E(v); err != nil {
			return VectorText{}, fmt.Errorf("%w: font_size: %v", filter.ErrMalformedInput, err)
		}
	}

	return VectorText{
		Text:        cast.ToString(textData["text"]),
		Position:    position,
		FontSize:    &fontSize,
		BoundingBox: bbox,
	}, nil
}

func convertLine(lineData map[string]any) (VectorLine, error) {
	p1, err := pointValues(lineData["p1"])
	if err != nil {
		return VectorLine{}, fmt.Errorf("p1: %w", err)
	}
	p2, err := pointValues(lineData["p2"])
	if err != nil {
		return VectorLine{}, fmt.Errorf("p2: %w", err)
	}

	length, err := floatOr(lineData["length"], 0)
	if err != nil {
		return VectorLine{}, fmt.Errorf("length: %w", err)
	}
	if length == 0 {
		length = math.Hypot(p2[0]-p1[0], p2[1]-p1[1])
	}

	widthValue, ok := lineData["width"]
	if !ok {
		widthValue = lineData["stroke_width"]
	}
	stroke, err := floatOr(widthValue, defaultStrokeWidth)
	if err != nil {
		return VectorLine{}, fmt.Errorf("width: %w", err)
	}

	line := VectorLine{
		P1:          p1,
		P2:          p2,
		StrokeWidth: &stroke,
		Length:      &length,
		Color:       []int{0, 0, 0},
		IsDashed:    cast.ToBool(lineData["is_dashed"]),
	}
	if rawColor, ok := lineData["color"]; ok && rawColor != nil {
		if line.Color, err = cast.ToIntSliceE(rawColor); err != nil {
			return VectorLine{}, fmt.Errorf("%w: color: %v", filter.ErrMalformedInput, err)
		}
	}
	if rawAngle, ok := lineData["angle"]; ok && rawAngle != nil {
		angle, err := cast.ToFloat64E(rawAngle)
		if err != nil {
			return VectorLine{}, fmt.Errorf("%w: angle: %v", filter.ErrMalformedInput, err)
		}
		line.Angle = &angle
	}
	return line, nil
}

// pointValues reads {"x":..,"y":..} or [x, y]. A missing point is the origin.
func pointValues(v any) ([]float64, error) {
	switch p := v.(type) {
	case nil:
		return []float64{0, 0}, nil
	case map[string]any:
		x, err := floatOr(p["x"], 0)
		if err != nil {
			return nil, err
		}
		y, err := floatOr(p["y"], 0)
		if err != nil {
			return nil, err
		}
		return []float64{x, y}, nil
	default:
		values, err := floatSlice(v)
		if err != nil {
			return nil, err
		}
		if len(values) < 2 {
			return nil, fmt.Errorf("%w: point needs 2 values, got %d", filter.ErrMalformedInput, len(values))
		}
		return values[:2], nil
	}
}

// bboxValues reads {"x0","y0","x1","y1"} or [x0, y0, x1, y1]. Anything shorter falls
// back to a 100x20 box at the origin.
func bboxValues(v any) ([]float64, error) {
	fallback := []float64{0, 0, 100, 20}
	switch b := v.(type) {
	case nil:
		return fallback, nil
	case map[string]any:
		out := make([]float64, 4)
		for i, key := range []string{"x0", "y0", "x1", "y1"} {
			f, err := floatOr(b[key], fallback[i])
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		values, err := floatSlice(v)
		if err != nil {
			return nil, err
		}
		if len(values) < 4 {
			return fallback, nil
		}
		return values[:4], nil
	}
}

func floatSlice(v any) ([]float64, error) {
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", filter.ErrMalformedInput, err)
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", filter.ErrMalformedInput, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func floatOr(v any, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", filter.ErrMalformedInput, err)
	}
	return f, nil
}
