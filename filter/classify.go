package filter

import "strings"

// Sub-types that may be named explicitly inside parentheses in a region label,
// e.g. "Detail A (detailtekening_kozijn)".
var explicitSubTypes = []DrawingType{
	Plattegrond,
	Doorsnede,
	Gevelaanzicht,
	DetailtekeningKozijn,
	DetailtekeningPlattegrond,
	Detailtekening,
}

// ClassifyRegionLabel resolves the drawing type of a region on a bestektekening
// page from its free-text label. Labels that cannot be resolved yield Unknown.
func ClassifyRegionLabel(label string) DrawingType {
	if dt, ok := explicitSubType(label); ok {
		return dt
	}

	lower := strings.ToLower(label)
	switch {
	case containsAny(lower, "plattegrond", "grond", "verdieping"):
		return Plattegrond
	case containsAny(lower, "gevel", "aanzicht"):
		return Gevelaanzicht
	case strings.Contains(lower, "doorsnede"):
		return Doorsnede
	case strings.Contains(lower, "detail"):
		if containsAny(lower, "kozijn", "raam", "deur") {
			return DetailtekeningKozijn
		}
		return Detailtekening
	default:
		return Unknown
	}
}

// explicitSubType reads the tag between the first "(" and the first ")" after it.
// The tag must match a sub-type exactly.
func explicitSubType(label string) (DrawingType, bool) {
	start := strings.Index(label, "(")
	if start < 0 {
		return "", false
	}
	end := strings.Index(label[start+1:], ")")
	if end < 0 {
		return "", false
	}
	tag := DrawingType(strings.TrimSpace(label[start+1 : start+1+end]))
	for _, dt := range explicitSubTypes {
		if tag == dt {
			return dt, true
		}
	}
	return "", false
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
