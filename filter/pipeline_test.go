package filter

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string, x0, y0, x1, y1 float64) TextLabel {
	return TextLabel{Text: s, BBox: NewRect(x0, y0, x1, y1), Position: Point{X: x0, Y: y0}}
}

func page(lines []LineSegment, texts []TextLabel) Page {
	if lines == nil {
		lines = []LineSegment{}
	}
	if texts == nil {
		texts = []TextLabel{}
	}
	return Page{Size: PageSize{Width: 595, Height: 842}, Lines: lines, Texts: texts}
}

func TestFilterPlattegrondLine(t *testing.T) {
	p := page([]LineSegment{seg(0, 0, 100, 0)}, nil)
	regions := []Region{{Label: "Begane grond", Block: NewRect(0, 0, 200, 50)}}

	result, err := Filter(p, "plattegrond", regions)
	require.NoError(t, err)

	assert.Equal(t, "plattegrond", result.DrawingType)
	require.Len(t, result.Regions, 1)
	region := result.Regions[0]
	assert.Equal(t, "Begane grond", region.Label)
	assert.Nil(t, region.ParsedDrawingType)
	require.Len(t, region.Lines, 1)
	assert.Equal(t, FilteredLine{Length: 100, Orientation: Horizontal, Midpoint: Point{X: 50, Y: 0}}, region.Lines[0])
	assert.Empty(t, region.Texts)
}

func TestFilterGevelaanzichtMarkerText(t *testing.T) {
	p := page(nil, []TextLabel{text("+7555P", 0, 0, 50, 20)})
	regions := []Region{{Label: "Gevel", Block: NewRect(0, 0, 200, 50)}}

	result, err := Filter(p, "gevelaanzicht", regions)
	require.NoError(t, err)

	require.Len(t, result.Regions, 1)
	assert.Equal(t, []FilteredText{{Text: "+7555P", Midpoint: Point{X: 25, Y: 10}}}, result.Regions[0].Texts)
}

func TestFilterInstallatietekeningShortCircuits(t *testing.T) {
	inputs := []Page{
		page([]LineSegment{seg(0, 0, 100, 0)}, []TextLabel{text("2400", 0, 0, 50, 20)}),
		page(nil, nil),
		{},
	}
	regions := []Region{{Label: "Alles", Block: NewRect(0, 0, 1000, 1000)}}

	for _, p := range inputs {
		result, err := Filter(p, "installatietekening", regions)
		require.NoError(t, err)
		assert.Equal(t, "installatietekening", result.DrawingType)
		assert.NotNil(t, result.Regions)
		assert.Empty(t, result.Regions)
	}
}

func TestFilterMalformedInput(t *testing.T) {
	regions := []Region{{Label: "A", Block: NewRect(0, 0, 10, 10)}}

	_, err := Filter(Page{Texts: []TextLabel{}}, "plattegrond", regions)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Filter(Page{Lines: []LineSegment{}}, "plattegrond", regions)
	assert.ErrorIs(t, err, ErrMalformedInput)

	result, err := Filter(page(nil, nil), "plattegrond", regions)
	require.NoError(t, err)
	require.Len(t, result.Regions, 1)
	assert.Empty(t, result.Regions[0].Lines)
}

func TestFilterStepOneThresholds(t *testing.T) {
	thick := seg(0, 10, 100, 10)
	thick.StrokeWidth = 2
	dashedThick := seg(0, 20, 100, 20)
	dashedThick.StrokeWidth = 3
	dashedThick.Dashed = true
	short := seg(0, 30, 45, 30)
	medium := seg(0, 40, 0, 75)

	p := page([]LineSegment{seg(0, 0, 100, 0), thick, dashedThick, short, medium}, nil)
	regions := []Region{{Label: "R", Block: NewRect(0, 0, 200, 200)}}

	tests := []struct {
		drawingType string
		wantLengths []float64
	}{
		{drawingType: "plattegrond", wantLengths: []float64{100, 100}},
		{drawingType: "gevelaanzicht", wantLengths: []float64{100, 100, 45}},
		{drawingType: "doorsnede", wantLengths: []float64{100, 100, 45}},
		{drawingType: "detailtekening", wantLengths: []float64{100, 100, 45, 35}},
		{drawingType: "whatever", wantLengths: []float64{100, 100, 45, 35}},
	}

	for _, tc := range tests {
		t.Run(tc.drawingType, func(t *testing.T) {
			result, err := Filter(p, tc.drawingType, regions)
			require.NoError(t, err)
			require.Len(t, result.Regions, 1)
			var lengths []float64
			for _, l := range result.Regions[0].Lines {
				lengths = append(lengths, l.Length)
			}
			assert.Equal(t, tc.wantLengths, lengths)
		})
	}
}

func TestFilterBestektekeningRegions(t *testing.T) {
	// Lengths 25, 35, 45 and 60, all thin and solid, plus a thick one.
	lines := []LineSegment{
		seg(10, 10, 35, 10),
		seg(10, 20, 45, 20),
		seg(10, 30, 55, 30),
		seg(10, 40, 70, 40),
		func() LineSegment { l := seg(10, 50, 90, 50); l.StrokeWidth = 1.2; return l }(),
	}
	texts := []TextLabel{
		text("300", 20, 60, 40, 70),
		text("2400", 50, 60, 80, 70),
		text("kamer", 90, 60, 120, 70),
	}
	p := page(lines, texts)

	block := NewRect(0, 0, 150, 80)
	regions := []Region{
		{Label: "Begane grond", Block: block},
		{Label: "Detail kozijn", Block: block},
		{Label: "Gevel noord", Block: block},
		{Label: "Situatie", Block: block},
	}

	result, err := Pipeline{Debug: true}.Filter(p, "bestektekening", regions)
	require.NoError(t, err)
	require.Len(t, result.Regions, 4)

	lengths := func(rr RegionResult) []float64 {
		var out []float64
		for _, l := range rr.Lines {
			out = append(out, l.Length)
		}
		return out
	}
	texts2 := func(rr RegionResult) []string {
		var out []string
		for _, tx := range rr.Texts {
			out = append(out, tx.Text)
		}
		return out
	}

	plat := result.Regions[0]
	require.NotNil(t, plat.ParsedDrawingType)
	assert.Equal(t, Plattegrond, *plat.ParsedDrawingType)
	assert.Equal(t, []float64{60, 80}, lengths(plat))
	assert.Equal(t, []string{"2400"}, texts2(plat))

	detail := result.Regions[1]
	assert.Equal(t, DetailtekeningKozijn, *detail.ParsedDrawingType)
	assert.Equal(t, []float64{25, 35, 45, 60}, lengths(detail))
	assert.Equal(t, []string{"300", "2400"}, texts2(detail))

	gevel := result.Regions[2]
	assert.Equal(t, Gevelaanzicht, *gevel.ParsedDrawingType)
	assert.Equal(t, []float64{45, 60, 80}, lengths(gevel))

	unknown := result.Regions[3]
	assert.Equal(t, Unknown, *unknown.ParsedDrawingType)
	assert.Equal(t, []float64{35, 45, 60, 80}, lengths(unknown))

	require.NotNil(t, plat.Stats)
	assert.Equal(t, RegionStats{LinesInRegion: 5, LinesIncluded: 2, TextsInRegion: 3, TextsIncluded: 1}, *plat.Stats)
}

func TestFilterDeduplicatesBeforeRegions(t *testing.T) {
	p := page([]LineSegment{seg(0, 0, 100, 0), seg(100, 0, 0.5, 0.5), seg(0, 100, 100, 100)}, nil)
	regions := []Region{
		{Label: "top", Block: NewRect(0, 0, 100, 10)},
		{Label: "all", Block: NewRect(0, 0, 100, 100)},
	}

	result, err := Filter(p, "plattegrond", regions)
	require.NoError(t, err)
	assert.Len(t, result.Regions[0].Lines, 1)
	// Overlapping regions may both claim the same line.
	assert.Len(t, result.Regions[1].Lines, 2)
}

func TestFilterRegionMembership(t *testing.T) {
	p := page(
		[]LineSegment{seg(0, 0, 100, 0), seg(500, 500, 600, 500)},
		[]TextLabel{text("2400", 0, 0, 50, 20), text("1200", 500, 480, 540, 495)},
	)
	regions := []Region{
		{Label: "links", Block: NewRect(0, 0, 200, 50)},
		{Label: "rechts", Block: NewRect(480, 470, 700, 520)},
		{Label: "leeg", Block: NewRect(1000, 1000, 1100, 1100)},
	}

	result, err := Filter(p, "doorsnede", regions)
	require.NoError(t, err)
	require.Len(t, result.Regions, 3)

	assert.Equal(t, Point{X: 50, Y: 0}, result.Regions[0].Lines[0].Midpoint)
	assert.Equal(t, "2400", result.Regions[0].Texts[0].Text)
	assert.Len(t, result.Regions[0].Lines, 1)

	assert.Equal(t, Point{X: 550, Y: 500}, result.Regions[1].Lines[0].Midpoint)
	assert.Equal(t, "1200", result.Regions[1].Texts[0].Text)

	assert.NotNil(t, result.Regions[2].Lines)
	assert.Empty(t, result.Regions[2].Lines)
	assert.Empty(t, result.Regions[2].Texts)
	assert.Nil(t, result.Regions[2].Stats)
}

func TestFilterUsesExplicitAngle(t *testing.T) {
	l := seg(0, 0, 100, 0)
	angle := 0.0
	l.Angle = &angle

	result, err := Filter(page([]LineSegment{l}, nil), "plattegrond", []Region{{Label: "R", Block: NewRect(0, 0, 100, 100)}})
	require.NoError(t, err)
	assert.Equal(t, Vertical, result.Regions[0].Lines[0].Orientation)
}

func TestFilterResultDoesNotDependOnLogging(t *testing.T) {
	p := page(
		[]LineSegment{seg(0, 0, 100, 0), seg(0, 10, 0, 90)},
		[]TextLabel{text("2400", 0, 0, 50, 20), text("abc", 0, 30, 20, 40)},
	)
	regions := []Region{{Label: "Detail raam", Block: NewRect(0, 0, 200, 100)}}

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	silent, err := Filter(p, "bestektekening", regions)
	require.NoError(t, err)
	verbose, err := Pipeline{Logger: logger}.Filter(p, "bestektekening", regions)
	require.NoError(t, err)

	assert.Equal(t, silent, verbose)
	assert.Contains(t, buf.String(), "Region filtered")
	assert.Contains(t, buf.String(), "Excluding text")
}

func TestFilterDerivesMissingLength(t *testing.T) {
	line := LineSegment{P1: Point{X: 0, Y: 0}, P2: Point{X: 0, Y: 80}, StrokeWidth: 1.0}
	p := page([]LineSegment{line}, nil)
	regions := []Region{{Label: "Begane grond", Block: NewRect(0, 0, 100, 100)}}

	result, err := Filter(p, "plattegrond", regions)
	require.NoError(t, err)
	require.Len(t, result.Regions[0].Lines, 1)
	assert.Equal(t, FilteredLine{Length: 80, Orientation: Vertical, Midpoint: Point{X: 0, Y: 40}}, result.Regions[0].Lines[0])
}

func TestFilterDrawingTypeIsCaseInsensitive(t *testing.T) {
	regions := []Region{{Label: "Alles", Block: NewRect(0, 0, 1000, 1000)}}

	result, err := Filter(page([]LineSegment{seg(0, 0, 100, 0)}, nil), " Installatietekening ", regions)
	require.NoError(t, err)
	assert.Equal(t, " Installatietekening ", result.DrawingType, "drawing type is echoed as given")
	assert.Empty(t, result.Regions)

	result, err = Filter(page([]LineSegment{seg(0, 0, 100, 0)}, nil), "PLATTEGROND", regions)
	require.NoError(t, err)
	require.Len(t, result.Regions, 1)
	assert.Len(t, result.Regions[0].Lines, 1)
}
