package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"drawing-filter/filter"
	"drawing-filter/ingest"
	"drawing-filter/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// App struct to hold dependencies
type App struct {
	Config       Config
	VectorClient *VectorAPIClient
}

// debugRequested reads the debug query flag. Unparseable values mean off.
func debugRequested(c *gin.Context) bool {
	debug, err := strconv.ParseBool(c.DefaultQuery("debug", "false"))
	return err == nil && debug
}

// errorStatus maps a processing error onto an HTTP status code
func errorStatus(err error) int {
	switch {
	case errors.Is(err, filter.ErrMalformedInput),
		errors.Is(err, ErrFetchDisabled),
		errors.Is(err, ErrForeignURL):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// runFilter normalizes a request and runs the pipeline on its first page
func (app *App) runFilter(logger logrus.FieldLogger, req *ingest.FilterRequest, debug bool) (*filter.Result, error) {
	n, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if n.IgnoredPages > 0 {
		logger.Warnf("Only the first page is filtered, ignoring %d further page(s)", n.IgnoredPages)
	}

	pipeline := filter.Pipeline{Logger: logger, Debug: debug}
	return pipeline.Filter(n.Page, n.DrawingType, n.Regions)
}

// filterHandler handles the POST /filter endpoint
func (app *App) filterHandler(c *gin.Context) {
	logger := requestLogger(c)

	var req ingest.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Errorf("Invalid filter request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	result, err := app.runFilter(logger, &req, debugRequested(c))
	if err != nil {
		logger.Errorf("Error filtering drawing: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// filterFromVectorAPIHandler handles the POST /filter-from-vector-api endpoint.
// It accepts raw Vector Drawing API output, inline or by reference.
func (app *App) filterFromVectorAPIHandler(c *gin.Context) {
	logger := requestLogger(c)

	var req ingest.VectorAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Errorf("Invalid vector api request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	raw := req.VectorData
	if raw == nil {
		if req.VectorDataURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vector_data or vector_data_url is required"})
			return
		}
		var err error
		raw, err = app.VectorClient.Fetch(c.Request.Context(), req.VectorDataURL)
		if err != nil {
			logger.Errorf("Error fetching vector data from %s: %v", req.VectorDataURL, err)
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
	}

	data, err := ingest.NormalizeVectorAPI(raw)
	if err != nil {
		logger.Errorf("Error converting vector data: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": fmt.Sprintf("Failed to convert vector data: %v", err)})
		return
	}

	filterReq := ingest.FilterRequest{VectorData: *data, VisionOutput: req.VisionOutput}
	result, err := app.runFilter(logger, &filterReq, debugRequested(c))
	if err != nil {
		logger.Errorf("Error filtering drawing: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchFilterHandler handles the POST /api/filter/batch endpoint
func (app *App) batchFilterHandler(c *gin.Context) {
	logger := requestLogger(c)

	var reqs []ingest.FilterRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		logger.Errorf("Invalid batch request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Batch is empty"})
		return
	}
	if len(reqs) > app.Config.MaxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Batch has %d items, the maximum is %d", len(reqs), app.Config.MaxBatchSize)})
		return
	}

	debug := debugRequested(c)
	results := make([]*filter.Result, len(reqs))

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(app.Config.BatchConcurrency)
	for i := range reqs {
		i := i // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := app.runFilter(logger.WithField("item", i), &reqs[i], debug)
			if err != nil {
				return &batchItemError{Index: i, Err: err}
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Errorf("Error filtering batch: %v", err)
		response := gin.H{"error": err.Error()}
		var itemErr *batchItemError
		if errors.As(err, &itemErr) {
			response["index"] = itemErr.Index
		}
		c.JSON(errorStatus(err), response)
		return
	}

	logger.Infof("Filtered batch of %d drawings", len(results))
	c.JSON(http.StatusOK, results)
}

// batchItemError records which batch item failed
type batchItemError struct {
	Index int
	Err   error
}

func (e *batchItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *batchItemError) Unwrap() error {
	return e.Err
}

// healthHandler handles the GET /health endpoint
func (app *App) healthHandler(c *gin.Context) {
	formats := make([]string, 0, len(filter.DimensionRules()))
	for _, rule := range filter.DimensionRules() {
		formats = append(formats, rule.Example)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   constants.ServiceName,
		"version":   constants.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"dimension_support": gin.H{
			"formats":       formats,
			"max_dimension": filter.MaxDimension,
		},
		"vector_api_fetch": app.VectorClient.Enabled(),
	})
}

// drawingTypeInfo describes the rules applied to one drawing type
type drawingTypeInfo struct {
	Lines        filter.Threshold `json:"lines"`
	MinDimension float64          `json:"min_dimension"`
	MaxDimension float64          `json:"max_dimension"`
	Note         string           `json:"note,omitempty"`
}

func drawingTypeRules() map[filter.DrawingType]drawingTypeInfo {
	types := []filter.DrawingType{
		filter.Plattegrond,
		filter.Doorsnede,
		filter.Gevelaanzicht,
		filter.Detailtekening,
		filter.DetailtekeningKozijn,
		filter.DetailtekeningPlattegrond,
		filter.Bestektekening,
		filter.Unknown,
	}

	rules := make(map[filter.DrawingType]drawingTypeInfo, len(types)+1)
	for _, dt := range types {
		minValue, maxValue := filter.DimensionBounds(dt)
		rules[dt] = drawingTypeInfo{
			Lines:        filter.ThresholdFor(dt),
			MinDimension: minValue,
			MaxDimension: maxValue,
		}
	}

	bestek := rules[filter.Bestektekening]
	bestek.Note = "page-wide pass, each region is then filtered with the rules of the type named in its label"
	rules[filter.Bestektekening] = bestek
	rules[filter.Installatietekening] = drawingTypeInfo{Note: "no output, every region is empty"}
	return rules
}

// infoHandler handles the GET / endpoint
func (app *App) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":            constants.ServiceName,
		"version":            constants.Version,
		"description":        "Filters vector drawing data to the lines and dimension labels inside detected regions",
		"dimension_examples": constants.DimensionExamples,
		"region_buffer":      filter.RegionBuffer,
		"drawing_types":      drawingTypeRules(),
		"endpoints": gin.H{
			"filter":                 "POST /filter",
			"filter_from_vector_api": "POST /filter-from-vector-api",
			"filter_batch":           "POST /api/filter/batch",
			"health":                 "GET /health",
		},
	})
}
