package ingest

// FilterRequest is the request payload for the /filter endpoint.
type FilterRequest struct {
	VectorData   VectorData   `json:"vector_data"`
	VisionOutput VisionOutput `json:"vision_output"`
}

// VectorAPIRequest is the request payload for the /filter-from-vector-api endpoint.
// VectorData holds the raw Vector Drawing API output. When it is absent the data is
// fetched from VectorDataURL.
type VectorAPIRequest struct {
	VectorData    map[string]any `json:"vector_data"`
	VectorDataURL string         `json:"vector_data_url,omitempty"`
	VisionOutput  VisionOutput   `json:"vision_output"`
}

// VectorData is the normalized vector extraction of a document.
type VectorData struct {
	PageNumber int          `json:"page_number"`
	Pages      []VectorPage `json:"pages" binding:"required"`
}

// VectorPage is one page of vector data.
type VectorPage struct {
	PageSize map[string]float64 `json:"page_size"`
	Lines    []VectorLine       `json:"lines"`
	Texts    []VectorText       `json:"texts"`
}

// VectorLine is a line as delivered by the extractor.
type VectorLine struct {
	P1          []float64 `json:"p1"`
	P2          []float64 `json:"p2"`
	StrokeWidth *float64  `json:"stroke_width,omitempty"`
	Length      *float64  `json:"length,omitempty"`
	Color       []int     `json:"color,omitempty"`
	IsDashed    bool      `json:"is_dashed"`
	Angle       *float64  `json:"angle,omitempty"`
}

// VectorText is a text run as delivered by the extractor.
type VectorText struct {
	Text        string    `json:"text"`
	Position    []float64 `json:"position"`
	FontSize    *float64  `json:"font_size,omitempty"`
	BoundingBox []float64 `json:"bounding_box"`
}

// VisionOutput is what the upstream vision stage detected on the page.
type VisionOutput struct {
	DrawingType   string         `json:"drawing_type" binding:"required"`
	Regions       []VisionRegion `json:"regions" binding:"required"`
	ImageMetadata map[string]any `json:"image_metadata,omitempty"`
}

// VisionRegion is a labeled rectangle, coordinate_block being [x1, y1, x2, y2].
type VisionRegion struct {
	Label           string    `json:"label"`
	CoordinateBlock []float64 `json:"coordinate_block"`
}
