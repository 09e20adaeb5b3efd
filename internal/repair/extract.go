package repair

import (
	"regexp"
	"strings"
)

// Targeted field patterns for the last-resort extraction path. Each field
// has a structured key-value pattern and a looser prose fallback.
var (
	commonNameKeyRe   = regexp.MustCompile(`(?i)"commonName"\s*:\s*"([^"]+)"`)
	commonNameProseRe = regexp.MustCompile(`(?i)common name\s*(?:is|:)\s*([^.\n]+)`)

	scientificKeyRe   = regexp.MustCompile(`(?i)"scientificName"\s*:\s*"([^"]+)"`)
	scientificProseRe = regexp.MustCompile(`(?i)scientific name\s*(?:is|:)\s*([^.\n]+)`)

	confidenceKeyRe   = regexp.MustCompile(`(?i)"identificationConfidence"\s*:\s*"(High|Medium|Low)"`)
	confidenceProseRe = regexp.MustCompile(`(?i)confidence\s*(?:is|:)\s*(High|Medium|Low)`)
)

// ExtractFields scrapes whatever identifiable fields it can find from raw
// text. It never fails; the result may be empty. Callers feed the sparse
// record through the defaulter, so partial data beats none.
func ExtractFields(raw string) map[string]any {
	record := make(map[string]any)

	if v := firstMatch(raw, commonNameKeyRe, commonNameProseRe); v != "" {
		record["commonName"] = v
	}
	if v := firstMatch(raw, scientificKeyRe, scientificProseRe); v != "" {
		record["scientificName"] = v
	}
	if m := confidenceKeyRe.FindStringSubmatch(raw); m != nil {
		record["identificationConfidence"] = canonicalConfidence(m[1])
	} else if m := confidenceProseRe.FindStringSubmatch(raw); m != nil {
		record["identificationConfidence"] = canonicalConfidence(m[1])
	}

	return record
}

func firstMatch(raw string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func canonicalConfidence(v string) string {
	switch strings.ToLower(v) {
	case "high":
		return "High"
	case "low":
		return "Low"
	default:
		return "Medium"
	}
}
