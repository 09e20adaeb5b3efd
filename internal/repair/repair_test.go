package repair

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestRecover_ValidJSONRoundTrips(t *testing.T) {
	input := `{"commonName":"Aloe","scientificName":"Aloe vera","careRequirements":{"watering":"weekly"},"interestingFacts":["a","b","c"],"imageCount":5}`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}

	var want map[string]any
	if err := json.Unmarshal([]byte(input), &want); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Recover() = %#v, want %#v", got, want)
	}
}

func TestRecover_MarkdownFence(t *testing.T) {
	input := "Here is the plant: ```json\n{\"commonName\":\"Aloe\"}\n```"

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Aloe" {
		t.Fatalf("commonName = %v, want Aloe", got["commonName"])
	}
}

func TestRecover_FenceWithoutLanguageTag(t *testing.T) {
	input := "```\n{\"commonName\":\"Monstera\"}\n```"

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Monstera" {
		t.Fatalf("commonName = %v, want Monstera", got["commonName"])
	}
}

func TestRecover_ProseAroundBraces(t *testing.T) {
	input := `Sure! I identified the plant. {"commonName":"Fern","family":"Polypodiaceae"} Let me know if you need more.`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Fern" || got["family"] != "Polypodiaceae" {
		t.Fatalf("unexpected record: %#v", got)
	}
}

func TestRecover_TextualRepairs(t *testing.T) {
	// Bare keys, single quotes, and a trailing comma in one payload.
	input := `{commonName: 'Aloe', scientificName: 'Aloe vera',}`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Aloe" {
		t.Fatalf("commonName = %v, want Aloe", got["commonName"])
	}
	if got["scientificName"] != "Aloe vera" {
		t.Fatalf("scientificName = %v, want Aloe vera", got["scientificName"])
	}
}

func TestRecover_TrailingCommaInArray(t *testing.T) {
	input := `{"warnings": ["toxic to cats",]}`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	warnings, ok := got["warnings"].([]any)
	if !ok || len(warnings) != 1 {
		t.Fatalf("warnings = %#v", got["warnings"])
	}
}

func TestRecover_SequentialObjects(t *testing.T) {
	// Two sequential objects: the first balanced one wins. The greedy
	// outer-brace strategy spans both and fails to parse, so recovery
	// falls through to the balanced scan.
	input := `{"commonName":"Aloe"} {"commonName":"Cactus"}`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Aloe" {
		t.Fatalf("commonName = %v, want Aloe", got["commonName"])
	}
}

func TestRecover_BracesInsideStrings(t *testing.T) {
	input := `noise {"note":"curly {brace} inside","commonName":"Ivy"} noise`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Ivy" {
		t.Fatalf("commonName = %v, want Ivy", got["commonName"])
	}
}

func TestRecover_ObjectInsideArray(t *testing.T) {
	input := `[{"commonName":"Aloe"}]`

	got, err := Recover(input)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if got["commonName"] != "Aloe" {
		t.Fatalf("commonName = %v, want Aloe", got["commonName"])
	}
}

func TestRecover_UnrecoverableInput(t *testing.T) {
	for _, input := range []string{"", "   ", "no json here at all", "{broken", "{{{"} {
		if _, err := Recover(input); !errors.Is(err, ErrNoRecoverableJSON) {
			t.Fatalf("Recover(%q) error = %v, want ErrNoRecoverableJSON", input, err)
		}
	}
}

func TestRecover_NullLiteral(t *testing.T) {
	// "null" unmarshals cleanly into a nil map; it must not be treated
	// as a recovered record.
	for _, input := range []string{"null", " null ", "```json\nnull\n```"} {
		got, err := Recover(input)
		if !errors.Is(err, ErrNoRecoverableJSON) {
			t.Fatalf("Recover(%q) error = %v, want ErrNoRecoverableJSON", input, err)
		}
		if got != nil {
			t.Fatalf("Recover(%q) = %#v, want nil", input, got)
		}
	}
}

func TestExtractFields_StructuredKeys(t *testing.T) {
	raw := `garbage "commonName": "Snake Plant" more garbage "scientificName": "Dracaena trifasciata" and "identificationConfidence": "High" end`

	got := ExtractFields(raw)
	if got["commonName"] != "Snake Plant" {
		t.Fatalf("commonName = %v", got["commonName"])
	}
	if got["scientificName"] != "Dracaena trifasciata" {
		t.Fatalf("scientificName = %v", got["scientificName"])
	}
	if got["identificationConfidence"] != "High" {
		t.Fatalf("identificationConfidence = %v", got["identificationConfidence"])
	}
}

func TestExtractFields_ProseFallback(t *testing.T) {
	raw := `The common name is Peace Lily. Its scientific name is Spathiphyllum wallisii. Overall confidence: low`

	got := ExtractFields(raw)
	if got["commonName"] != "Peace Lily" {
		t.Fatalf("commonName = %v", got["commonName"])
	}
	if got["scientificName"] != "Spathiphyllum wallisii" {
		t.Fatalf("scientificName = %v", got["scientificName"])
	}
	if got["identificationConfidence"] != "Low" {
		t.Fatalf("identificationConfidence = %v", got["identificationConfidence"])
	}
}

func TestExtractFields_EmptyOnNoMatches(t *testing.T) {
	got := ExtractFields("nothing recognizable")
	if len(got) != 0 {
		t.Fatalf("ExtractFields() = %#v, want empty", got)
	}
}
