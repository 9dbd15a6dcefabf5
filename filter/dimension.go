package filter

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxDimension is the largest plausible dimension for any drawing type (100 m).
	MaxDimension = 100000.0

	minDimensionPlattegrond = 500.0
	minDimensionDefault     = 100.0
)

const (
	numberPattern = `(\d+(?:[,.]\d+)?)`
	unitPattern   = `(mm|cm|m)?`
)

// DimensionRule recognizes one decoration of a dimension annotation, such as
// "+7555P" or "6032 + p". Rules are pure and match the whole trimmed string.
type DimensionRule struct {
	Name    string
	Example string
	re      *regexp.Regexp
}

func newDimensionRule(name, example, body string) DimensionRule {
	return DimensionRule{
		Name:    name,
		Example: example,
		re:      regexp.MustCompile(`(?i)^` + body + `$`),
	}
}

var dimensionRules = []DimensionRule{
	newDimensionRule("plain", "2400mm", numberPattern+`\s*`+unitPattern),
	newDimensionRule("signed", "+7555", `\+`+numberPattern+`\s*`+unitPattern),
	newDimensionRule("marker", "7555P", numberPattern+`\s*[pv]\s*`+unitPattern),
	newDimensionRule("signed-marker", "+7555P", `\+`+numberPattern+`\s*[pv]\s*`+unitPattern),
	newDimensionRule("plus-marker", "3749 + p", numberPattern+`\s*\+\s*[pv]\s*`+unitPattern),
}

// DimensionRules returns the recognizers used by ParseDimension.
func DimensionRules() []DimensionRule {
	rules := make([]DimensionRule, len(dimensionRules))
	copy(rules, dimensionRules)
	return rules
}

// Match applies the rule to an already trimmed string and returns the value in millimeters.
func (r DimensionRule) Match(s string) (float64, bool) {
	m := r.re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return value * unitFactor(m[2]), true
}

// unitFactor converts a unit to its millimeter multiplier. The p/v markers never reach
// this point because they are outside the unit group.
func unitFactor(unit string) float64 {
	switch strings.ToLower(unit) {
	case "cm":
		return 10
	case "m":
		return 1000
	default:
		return 1
	}
}

// ParseDimension extracts a millimeter value from a dimension annotation.
// It returns false when the text is not a dimension; that is not an error.
func ParseDimension(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, rule := range dimensionRules {
		if v, ok := rule.Match(s); ok {
			return v, true
		}
	}
	return 0, false
}

// DimensionBounds returns the inclusive range of plausible values for a drawing type.
func DimensionBounds(dt DrawingType) (minValue, maxValue float64) {
	if dt == Plattegrond {
		return minDimensionPlattegrond, MaxDimension
	}
	return minDimensionDefault, MaxDimension
}

// IsValidDimension reports whether raw parses to a value that is plausible for dt.
func IsValidDimension(raw string, dt DrawingType) bool {
	value, ok := ParseDimension(raw)
	if !ok {
		return false
	}
	minValue, maxValue := DimensionBounds(dt)
	return value >= minValue && value <= maxValue
}
