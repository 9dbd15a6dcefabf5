package filter

// Threshold is a line inclusion rule: a solid line is kept when it is thin enough
// and long enough. Dashed lines are always kept.
type Threshold struct {
	MaxStrokeWidth float64 `json:"max_stroke_width"`
	MinLength      float64 `json:"min_length"`
}

// Allows reports whether the line passes the threshold.
func (t Threshold) Allows(line LineSegment) bool {
	if line.Dashed {
		return true
	}
	return line.StrokeWidth <= t.MaxStrokeWidth && line.EffectiveLength() >= t.MinLength
}

var (
	defaultThreshold = Threshold{MaxStrokeWidth: 1.5, MinLength: 30}

	// Used for the first pass over a bestektekening page, before each region's
	// sub-type is known.
	bestekGlobalThreshold = Threshold{MaxStrokeWidth: 1.5, MinLength: 20}

	thresholds = map[DrawingType]Threshold{
		Plattegrond:               {MaxStrokeWidth: 1.5, MinLength: 50},
		Gevelaanzicht:             {MaxStrokeWidth: 1.5, MinLength: 40},
		Doorsnede:                 {MaxStrokeWidth: 1.5, MinLength: 40},
		Detailtekening:            {MaxStrokeWidth: 1.0, MinLength: 20},
		DetailtekeningKozijn:      {MaxStrokeWidth: 1.0, MinLength: 20},
		DetailtekeningPlattegrond: {MaxStrokeWidth: 1.0, MinLength: 20},
	}
)

// ThresholdFor returns the line rule for an effective drawing type.
// Bestektekening gets its permissive page-wide rule; unlisted types get the default.
func ThresholdFor(dt DrawingType) Threshold {
	if dt == Bestektekening {
		return bestekGlobalThreshold
	}
	if t, ok := thresholds[dt]; ok {
		return t
	}
	return defaultThreshold
}
