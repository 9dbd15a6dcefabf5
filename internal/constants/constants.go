package constants

// ServiceName is reported by the health and info endpoints.
const ServiceName = "drawing-filter"

// Version of the filtering rules and output schema.
const Version = "7.1.0"

// DimensionExamples are annotation strings the dimension parser is known to accept.
// They are listed on the info endpoints so pipeline owners can check their extractor output.
var DimensionExamples = []string{
	"2400mm", "3.5m", "250cm", "2400",
	"+7555", "+3000P", "+6410P", "7555P", "3000V",
	"6032+p", "3749 + p", "6032 +p",
}
