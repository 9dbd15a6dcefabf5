package filter

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrMalformedInput is returned when the page lacks required geometry.
// It is the only failure the pipeline reports.
var ErrMalformedInput = errors.New("malformed input")

// Pipeline filters a page against a set of regions. The zero value is ready to use
// and safe for concurrent calls.
type Pipeline struct {
	// Logger receives progress and per-region details. Nil discards them.
	Logger logrus.FieldLogger
	// Debug adds per-region counters to the result.
	Debug bool
}

var silentLogger = newSilentLogger()

func newSilentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (p Pipeline) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return silentLogger
	}
	return p.Logger
}

// Filter runs a silent, non-debug pipeline.
func Filter(page Page, drawingType string, regions []Region) (*Result, error) {
	return Pipeline{}.Filter(page, drawingType, regions)
}

// Filter keeps the lines and dimension texts of page that belong to each region.
// drawingType is echoed in the result as given; unrecognized values use the default rules.
func (p Pipeline) Filter(page Page, drawingType string, regions []Region) (*Result, error) {
	dt := ParseDrawingType(drawingType)
	log := p.logger().WithField("drawing_type", dt)

	result := &Result{
		DrawingType: drawingType,
		Regions:     []RegionResult{},
	}

	// Installation drawings never produce output, whatever the page holds.
	if dt == Installatietekening {
		log.Info("Skipping installatietekening")
		return result, nil
	}

	if err := validatePage(page); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"regions": len(regions),
		"lines":   len(page.Lines),
		"texts":   len(page.Texts),
	}).Info("Filtering page")

	candidates := filterLines(page.Lines, ThresholdFor(dt))
	log.Debugf("Drawing type filter kept %d of %d lines", len(candidates), len(page.Lines))

	unique := Dedupe(candidates)
	log.Debugf("Removed %d duplicate lines (%d -> %d)", len(candidates)-len(unique), len(candidates), len(unique))

	totalLines, totalTexts := 0, 0
	for _, region := range regions {
		rr := p.filterRegion(log, unique, page.Texts, dt, region)
		totalLines += len(rr.Lines)
		totalTexts += len(rr.Texts)
		result.Regions = append(result.Regions, rr)
	}

	log.WithFields(logrus.Fields{
		"unique_lines":    len(unique),
		"lines_included":  totalLines,
		"texts_included":  totalTexts,
		"regions_handled": len(result.Regions),
	}).Info("Filtering complete")

	return result, nil
}

func (p Pipeline) filterRegion(log logrus.FieldLogger, lines []LineSegment, texts []TextLabel, pageType DrawingType, region Region) RegionResult {
	rr := RegionResult{
		Label: region.Label,
		Lines: []FilteredLine{},
		Texts: []FilteredText{},
	}
	var stats RegionStats

	effective := pageType
	regionRule := Threshold{}
	bestek := pageType == Bestektekening
	if bestek {
		effective = ClassifyRegionLabel(region.Label)
		parsed := effective
		rr.ParsedDrawingType = &parsed
		regionRule = ThresholdFor(effective)
	}

	rlog := log.WithFields(logrus.Fields{"region": region.Label, "effective_type": effective})

	for _, line := range lines {
		if !SegmentInRegion(line.P1, line.P2, region.Block) {
			continue
		}
		stats.LinesInRegion++
		// On other page types the page-wide pass already applied the right rule.
		if bestek && !regionRule.Allows(line) {
			continue
		}
		rr.Lines = append(rr.Lines, FilteredLine{
			Length:      line.EffectiveLength(),
			Orientation: OrientationOf(line.P1, line.P2, line.Angle),
			Midpoint:    line.Midpoint(),
		})
	}
	stats.LinesIncluded = len(rr.Lines)

	for _, text := range texts {
		if !BBoxOverlapsRegion(text.BBox, region.Block) {
			continue
		}
		stats.TextsInRegion++
		if effective == Installatietekening || !IsValidDimension(text.Text, effective) {
			rlog.Debugf("Excluding text %q", text.Text)
			continue
		}
		rr.Texts = append(rr.Texts, FilteredText{
			Text:     text.Text,
			Midpoint: text.BBox.Center(),
		})
	}
	stats.TextsIncluded = len(rr.Texts)

	rlog.WithFields(logrus.Fields{
		"lines_in_region": stats.LinesInRegion,
		"lines_included":  stats.LinesIncluded,
		"texts_in_region": stats.TextsInRegion,
		"texts_included":  stats.TextsIncluded,
	}).Info("Region filtered")

	if p.Debug {
		rr.Stats = &stats
	}
	return rr
}

func filterLines(lines []LineSegment, rule Threshold) []LineSegment {
	kept := make([]LineSegment, 0, len(lines))
	for _, line := range lines {
		if rule.Allows(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

func validatePage(page Page) error {
	if page.Lines == nil {
		return fmt.Errorf("%w: page has no lines array", ErrMalformedInput)
	}
	if page.Texts == nil {
		return fmt.Errorf("%w: page has no texts array", ErrMalformedInput)
	}
	return nil
}
