// Package plant defines the canonical identification record and the
// defaulting rules that guarantee it is always fully populated.
package plant

// Confidence is the closed identification confidence enum.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Minimum lengths for the record's array fields. Sequences below these
// thresholds are replaced wholesale with defaults, never partially merged.
const (
	MinFacts         = 3
	MinWarnings      = 1
	MinSimilarPlants = 1
	MinSearchTerms   = 3
	MaxSearchTerms   = 5
)

// Bounds for the requested enrichment image count.
const (
	MinImageCount     = 4
	MaxImageCount     = 8
	DefaultImageCount = 6
)

// CareRequirements holds the six care guidance fields.
type CareRequirements struct {
	Watering    string `json:"watering"`
	Sunlight    string `json:"sunlight"`
	Soil        string `json:"soil"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Fertilizing string `json:"fertilizing"`
}

// GrowthCharacteristics holds the three growth description fields.
type GrowthCharacteristics struct {
	Size       string `json:"size"`
	GrowthRate string `json:"growthRate"`
	Lifespan   string `json:"lifespan"`
}

// Record is the canonical identification output. Every field is always
// populated: unknown or unparseable upstream data degrades to defaults
// rather than leaving holes.
type Record struct {
	CommonName               string                `json:"commonName"`
	ScientificName           string                `json:"scientificName"`
	Family                   string                `json:"family"`
	NativeRegion             string                `json:"nativeRegion"`
	CareRequirements         CareRequirements      `json:"careRequirements"`
	GrowthCharacteristics    GrowthCharacteristics `json:"growthCharacteristics"`
	InterestingFacts         []string              `json:"interestingFacts"`
	Warnings                 []string              `json:"warnings"`
	IdentificationConfidence Confidence            `json:"identificationConfidence"`
	SimilarPlants            []string              `json:"similarPlants"`
	ImageSearchTerms         []string              `json:"imageSearchTerms"`
	ImageCount               int                   `json:"imageCount"`
}
