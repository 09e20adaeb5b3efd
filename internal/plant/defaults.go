package plant

import (
	"strings"
)

// Documented default values. Substituted field-by-field whenever the
// upstream record is missing a value or holds the wrong type.
const (
	DefaultCommonName     = "Unknown Plant"
	DefaultScientificName = "Unidentified species"
	DefaultFamily         = "Unknown"
	DefaultNativeRegion   = "Unknown"
)

var defaultCare = CareRequirements{
	Watering:    "Water when the top inch of soil feels dry",
	Sunlight:    "Bright, indirect light",
	Soil:        "Well-draining potting mix",
	Temperature: "18-24°C (65-75°F)",
	Humidity:    "Average household humidity",
	Fertilizing: "Feed monthly during the growing season",
}

var defaultGrowth = GrowthCharacteristics{
	Size:       "Varies by variety",
	GrowthRate: "Moderate",
	Lifespan:   "Perennial with proper care",
}

var defaultFacts = []string{
	"Houseplants can improve indoor air quality.",
	"Most houseplant deaths are caused by overwatering, not underwatering.",
	"Rotating a plant a quarter turn each week keeps its growth even.",
}

var defaultWarnings = []string{
	"No specific hazards identified. Keep houseplants out of reach of pets and small children.",
}

var defaultSimilar = []string{"No similar plants identified"}

// Normalize maps a sparse, untyped upstream record into a fully populated
// Record. Every rule applies field-by-field with no cross-field
// dependency, so the output contract holds unconditionally - including
// for a nil input.
func Normalize(raw map[string]any) Record {
	rec := Record{
		CommonName:               stringField(raw, "commonName", DefaultCommonName),
		ScientificName:           stringField(raw, "scientificName", DefaultScientificName),
		Family:                   stringField(raw, "family", DefaultFamily),
		NativeRegion:             stringField(raw, "nativeRegion", DefaultNativeRegion),
		CareRequirements:         normalizeCare(raw),
		GrowthCharacteristics:    normalizeGrowth(raw),
		InterestingFacts:         arrayField(raw, "interestingFacts", MinFacts, defaultFacts),
		Warnings:                 arrayField(raw, "warnings", MinWarnings, defaultWarnings),
		IdentificationConfidence: confidenceField(raw),
		SimilarPlants:            arrayField(raw, "similarPlants", MinSimilarPlants, defaultSimilar),
		ImageCount:               imageCountField(raw),
	}
	rec.ImageSearchTerms = searchTermsField(raw, rec)
	return rec
}

func stringField(raw map[string]any, key, def string) string {
	if raw == nil {
		return def
	}
	if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

func subField(parent map[string]any, key, def string) string {
	if s, ok := parent[key].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

// normalizeCare validates each care sub-field independently when the
// parent key is an object; an absent or mistyped parent yields the full
// default sub-object.
func normalizeCare(raw map[string]any) CareRequirements {
	parent, ok := raw["careRequirements"].(map[string]any)
	if !ok {
		return defaultCare
	}
	return CareRequirements{
		Watering:    subField(parent, "watering", defaultCare.Watering),
		Sunlight:    subField(parent, "sunlight", defaultCare.Sunlight),
		Soil:        subField(parent, "soil", defaultCare.Soil),
		Temperature: subField(parent, "temperature", defaultCare.Temperature),
		Humidity:    subField(parent, "humidity", defaultCare.Humidity),
		Fertilizing: subField(parent, "fertilizing", defaultCare.Fertilizing),
	}
}

func normalizeGrowth(raw map[string]any) GrowthCharacteristics {
	parent, ok := raw["growthCharacteristics"].(map[string]any)
	if !ok {
		return defaultGrowth
	}
	return GrowthCharacteristics{
		Size:       subField(parent, "size", defaultGrowth.Size),
		GrowthRate: subField(parent, "growthRate", defaultGrowth.GrowthRate),
		Lifespan:   subField(parent, "lifespan", defaultGrowth.Lifespan),
	}
}

// arrayField filters non-string elements, then applies an all-or-nothing
// minimum: a sequence below the threshold is replaced with the full
// default, never partially merged.
func arrayField(raw map[string]any, key string, min int, def []string) []string {
	items, ok := raw[key].([]any)
	if !ok {
		return cloneStrings(def)
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) < min {
		return cloneStrings(def)
	}
	return out
}

func confidenceField(raw map[string]any) Confidence {
	if s, ok := raw["identificationConfidence"].(string); ok {
		switch Confidence(s) {
		case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
			return Confidence(s)
		}
	}
	return ConfidenceMedium
}

// imageCountField keeps a numeric value clamped into the allowed range.
// JSON numbers decode as float64; fractional values are truncated.
func imageCountField(raw map[string]any) int {
	var count int
	switch n := raw["imageCount"].(type) {
	case float64:
		count = int(n)
	case int:
		count = n
	default:
		return DefaultImageCount
	}
	if count < MinImageCount {
		return MinImageCount
	}
	if count > MaxImageCount {
		return MaxImageCount
	}
	return count
}

func searchTermsField(raw map[string]any, rec Record) []string {
	terms := arrayField(raw, "imageSearchTerms", MinSearchTerms, nil)
	if len(terms) >= MinSearchTerms {
		if len(terms) > MaxSearchTerms {
			terms = terms[:MaxSearchTerms]
		}
		return terms
	}
	return DeriveSearchTerms(rec)
}

// DeriveSearchTerms builds a deterministic 3-5 term query set from the
// record's name and family fields when the model supplied none.
func DeriveSearchTerms(rec Record) []string {
	terms := []string{
		rec.CommonName + " plant",
		rec.ScientificName,
		rec.CommonName + " leaves",
	}
	if rec.Family != DefaultFamily {
		terms = append(terms, rec.Family+" plant")
	}
	return terms
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ServiceUnavailableRecord is the placeholder payload returned when every
// configured model has been exhausted. It preserves the structural
// contract so consumers can render it like any identification.
func ServiceUnavailableRecord() Record {
	rec := Normalize(nil)
	rec.CommonName = "Service Unavailable"
	rec.ScientificName = "The identification service is temporarily overloaded"
	rec.InterestingFacts = []string{
		"The identification service is experiencing high demand.",
		"Your image was received but could not be analyzed right now.",
		"Please try again in a few minutes.",
	}
	rec.Warnings = []string{"This is placeholder content, not an identification."}
	rec.IdentificationConfidence = ConfidenceLow
	rec.ImageSearchTerms = []string{"houseplant", "indoor plant", "green foliage"}
	return rec
}

// ProcessingErrorRecord is the placeholder payload returned on unexpected
// internal failures.
func ProcessingErrorRecord() Record {
	rec := Normalize(nil)
	rec.CommonName = "Processing Error"
	rec.ScientificName = "The image could not be processed"
	rec.InterestingFacts = []string{
		"Something went wrong while analyzing your image.",
		"This is usually transient.",
		"Please try again with the same or a clearer photo.",
	}
	rec.Warnings = []string{"This is placeholder content, not an identification."}
	rec.IdentificationConfidence = ConfidenceLow
	rec.ImageSearchTerms = []string{"houseplant", "indoor plant", "green foliage"}
	return rec
}
