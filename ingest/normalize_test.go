package ingest

import (
	"encoding/json"
	"testing"

	"drawing-filter/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequest = `{
  "vector_data": {
    "page_number": 1,
    "pages": [
      {
        "page_size": {"width": 1190.0, "height": 842.0},
        "lines": [
          {"p1": [0, 0], "p2": [100, 0], "stroke_width": 1.0, "length": 100, "is_dashed": false},
          {"p1": [0, 0], "p2": [30, 40]},
          {"p1": [5, 5], "p2": [5, 80], "stroke_width": 0.5, "length": 75, "is_dashed": true, "angle": 0, "color": [255, 0, 0]}
        ],
        "texts": [
          {"text": "+7555P", "position": [0, 0], "font_size": 8, "bounding_box": [0, 0, 50, 20]},
          {"text": "2400", "position": [], "bounding_box": [60, 30, 10, 10]}
        ]
      },
      {"page_size": {"width": 595, "height": 842}, "lines": [], "texts": []}
    ]
  },
  "vision_output": {
    "drawing_type": "gevelaanzicht",
    "regions": [
      {"label": "Gevel noord", "coordinate_block": [0, 0, 200, 50]},
      {"label": "Gevel zuid", "coordinate_block": [400, 300, 200, 100]}
    ]
  }
}`

func decodeRequest(t *testing.T, body string) *FilterRequest {
	t.Helper()
	var req FilterRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestNormalize(t *testing.T) {
	n, err := decodeRequest(t, sampleRequest).Normalize()
	require.NoError(t, err)

	assert.Equal(t, "gevelaanzicht", n.DrawingType)
	assert.Equal(t, 1, n.IgnoredPages)
	assert.Equal(t, filter.PageSize{Width: 1190, Height: 842}, n.Page.Size)

	require.Len(t, n.Page.Lines, 3)
	first := n.Page.Lines[0]
	assert.Equal(t, filter.Point{X: 0, Y: 0}, first.P1)
	assert.Equal(t, filter.Point{X: 100, Y: 0}, first.P2)
	assert.Equal(t, 100.0, first.Length)
	assert.Equal(t, []int{0, 0, 0}, first.Color)
	assert.Nil(t, first.Angle)

	derived := n.Page.Lines[1]
	assert.Equal(t, 50.0, derived.Length, "length derived from endpoints")
	assert.Equal(t, 1.0, derived.StrokeWidth, "default stroke width")

	dashed := n.Page.Lines[2]
	assert.True(t, dashed.Dashed)
	assert.Equal(t, 0.5, dashed.StrokeWidth)
	require.NotNil(t, dashed.Angle)
	assert.Equal(t, 0.0, *dashed.Angle)
	assert.Equal(t, []int{255, 0, 0}, dashed.Color)

	require.Len(t, n.Page.Texts, 2)
	assert.Equal(t, "+7555P", n.Page.Texts[0].Text)
	assert.Equal(t, filter.NewRect(0, 0, 50, 20), n.Page.Texts[0].BBox)
	require.NotNil(t, n.Page.Texts[0].FontSize)
	assert.Equal(t, 8.0, *n.Page.Texts[0].FontSize)
	assert.Equal(t, filter.Rect{X0: 10, Y0: 10, X1: 60, Y1: 30}, n.Page.Texts[1].BBox)
	assert.Equal(t, filter.Point{X: 10, Y: 10}, n.Page.Texts[1].Position)

	require.Len(t, n.Regions, 2)
	assert.Equal(t, filter.Region{Label: "Gevel noord", Block: filter.NewRect(0, 0, 200, 50)}, n.Regions[0])
	assert.Equal(t, filter.Rect{X0: 200, Y0: 100, X1: 400, Y1: 300}, n.Regions[1].Block)
}

func TestNormalizeFeedsPipeline(t *testing.T) {
	n, err := decodeRequest(t, sampleRequest).Normalize()
	require.NoError(t, err)

	result, err := filter.Filter(n.Page, n.DrawingType, n.Regions)
	require.NoError(t, err)
	require.Len(t, result.Regions, 2)
	assert.Equal(t, []filter.FilteredText{
		{Text: "+7555P", Midpoint: filter.Point{X: 25, Y: 10}},
		{Text: "2400", Midpoint: filter.Point{X: 35, Y: 20}},
	}, result.Regions[0].Texts)
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no pages",
			body: `{"vector_data": {"pages": []}, "vision_output": {"drawing_type": "plattegrond", "regions": []}}`,
		},
		{
			name: "short point",
			body: `{"vector_data": {"pages": [{"lines": [{"p1": [0], "p2": [1, 1]}], "texts": []}]},
			        "vision_output": {"drawing_type": "plattegrond", "regions": []}}`,
		},
		{
			name: "short bounding box",
			body: `{"vector_data": {"pages": [{"lines": [], "texts": [{"text": "100", "bounding_box": [0, 0, 1]}]}]},
			        "vision_output": {"drawing_type": "plattegrond", "regions": []}}`,
		},
		{
			name: "bad coordinate block",
			body: `{"vector_data": {"pages": [{"lines": [], "texts": []}]},
			        "vision_output": {"drawing_type": "plattegrond", "regions": [{"label": "A", "coordinate_block": [0, 0, 10]}]}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeRequest(t, tc.body).Normalize()
			assert.ErrorIs(t, err, filter.ErrMalformedInput)
		})
	}
}

func TestNormalizeKeepsMissingArraysNil(t *testing.T) {
	req := decodeRequest(t, `{"vector_data": {"pages": [{"texts": []}]},
		"vision_output": {"drawing_type": "plattegrond", "regions": []}}`)

	n, err := req.Normalize()
	require.NoError(t, err)
	assert.Nil(t, n.Page.Lines)
	assert.NotNil(t, n.Page.Texts)

	_, err = filter.Filter(n.Page, n.DrawingType, n.Regions)
	assert.ErrorIs(t, err, filter.ErrMalformedInput)
}
