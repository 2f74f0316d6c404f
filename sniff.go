package geokit

import (
	"bufio"
	"regexp"
	"strings"
)

// JSONClass is the result of classifying a bounded JSON text prefix.
type JSONClass int

const (
	ClassUnknown JSONClass = iota
	ClassGeoJSON
	ClassEsriJSON
	ClassGeoJSONSeq
	ClassTopoJSON
)

// String returns a short name for the class.
func (c JSONClass) String() string {
	switch c {
	case ClassGeoJSON:
		return "geojson"
	case ClassEsriJSON:
		return "esrijson"
	case ClassGeoJSONSeq:
		return "geojsonseq"
	case ClassTopoJSON:
		return "topojson"
	default:
		return "unknown"
	}
}

// Format returns the format a class resolves to, and whether it resolves
// at all (ClassUnknown does not).
func (c JSONClass) Format() (Format, bool) {
	switch c {
	case ClassGeoJSON:
		return GeoJSON, true
	case ClassEsriJSON:
		return EsriJSON, true
	case ClassGeoJSONSeq:
		return GeoJSONSeq, true
	case ClassTopoJSON:
		return TopoJSON, true
	default:
		return "", false
	}
}

// Sniffer classifies a bounded text prefix into one of the JSON
// sub-formats. It is stateless apart from its limits and safe for
// concurrent use.
type Sniffer struct {
	// MinParseBytes is the minimum prefix length; shorter input is
	// reported as ClassUnknown so that tiny payloads like a bare "{}"
	// never match a rule.
	MinParseBytes int

	// SeqLineThreshold is the number of JSON-like lines required to
	// classify content as a newline-delimited sequence.
	SeqLineThreshold int

	// SeqForeignLimit is the number of non-JSON-like lines tolerated
	// before the sequence pattern is rejected.
	SeqForeignLimit int
}

// NewSniffer builds a sniffer from config limits.
func NewSniffer(cfg *Config) *Sniffer {
	return &Sniffer{
		MinParseBytes:    cfg.MinParseBytes,
		SeqLineThreshold: cfg.SeqLineThreshold,
		SeqForeignLimit:  cfg.SeqForeignLimit,
	}
}

// topologyPattern matches a "type" property (case-insensitive key) whose
// value is exactly "Topology".
var topologyPattern = regexp.MustCompile(`(?i:"type")\s*:\s*"Topology"`)

// jsonRules is the ordered heuristic rule chain, evaluated top to bottom
// with early exit. Ordering runs from most specific to most generic:
// GeoJSON markers such as "coordinates" appear inside EsriJSON and
// TopoJSON payloads too, so the generic rule must come last.
var jsonRules = []struct {
	class JSONClass
	match func(sn *Sniffer, text string) bool
}{
	{ClassTopoJSON, func(_ *Sniffer, text string) bool {
		return topologyPattern.MatchString(text)
	}},
	{ClassEsriJSON, func(_ *Sniffer, text string) bool {
		return strings.Contains(text, "spatialReference") ||
			strings.Contains(text, "geometryType")
	}},
	{ClassGeoJSONSeq, func(sn *Sniffer, text string) bool {
		return sn.looksLikeSequence(text)
	}},
	{ClassGeoJSON, func(_ *Sniffer, text string) bool {
		return strings.Contains(text, "FeatureCollection") ||
			strings.Contains(text, "Feature") ||
			strings.Contains(text, "coordinates")
	}},
}

// Classify runs the rule chain over a bounded UTF-8 prefix. The first
// matching rule wins; no match means ClassUnknown.
func (sn *Sniffer) Classify(prefix []byte) JSONClass {
	if len(prefix) < sn.MinParseBytes {
		return ClassUnknown
	}
	text := string(prefix)
	for _, rule := range jsonRules {
		if rule.match(sn, text) {
			return rule.class
		}
	}
	return ClassUnknown
}

// looksLikeSequence reports whether the prefix reads like a
// newline-delimited JSON sequence. A line is JSON-like when its trimmed
// content starts with '{' or '['. Blank lines are skipped. Hitting
// SeqLineThreshold JSON-like lines accepts; exceeding SeqForeignLimit
// non-JSON-like lines rejects.
func (sn *Sniffer) looksLikeSequence(text string) bool {
	jsonLike := 0
	foreign := 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			jsonLike++
			if jsonLike >= sn.SeqLineThreshold {
				return true
			}
		} else {
			foreign++
			if foreign > sn.SeqForeignLimit {
				return false
			}
		}
	}

	return false
}
