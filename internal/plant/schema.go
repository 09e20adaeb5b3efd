package plant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordSchema is the canonical JSON Schema for Record. The pipeline
// validates its own output against it before returning, which turns any
// defaulting regression into a loud failure instead of a malformed
// response.
const recordSchema = `{
	"type": "object",
	"properties": {
		"commonName": {"type": "string", "minLength": 1},
		"scientificName": {"type": "string", "minLength": 1},
		"family": {"type": "string", "minLength": 1},
		"nativeRegion": {"type": "string", "minLength": 1},
		"careRequirements": {
			"type": "object",
			"properties": {
				"watering": {"type": "string", "minLength": 1},
				"sunlight": {"type": "string", "minLength": 1},
				"soil": {"type": "string", "minLength": 1},
				"temperature": {"type": "string", "minLength": 1},
				"humidity": {"type": "string", "minLength": 1},
				"fertilizing": {"type": "string", "minLength": 1}
			},
			"required": ["watering", "sunlight", "soil", "temperature", "humidity", "fertilizing"]
		},
		"growthCharacteristics": {
			"type": "object",
			"properties": {
				"size": {"type": "string", "minLength": 1},
				"growthRate": {"type": "string", "minLength": 1},
				"lifespan": {"type": "string", "minLength": 1}
			},
			"required": ["size", "growthRate", "lifespan"]
		},
		"interestingFacts": {"type": "array", "items": {"type": "string"}, "minItems": 3},
		"warnings": {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"identificationConfidence": {"enum": ["High", "Medium", "Low"]},
		"similarPlants": {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"imageSearchTerms": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 5},
		"imageCount": {"type": "integer", "minimum": 4, "maximum": 8}
	},
	"required": [
		"commonName", "scientificName", "family", "nativeRegion",
		"careRequirements", "growthCharacteristics", "interestingFacts",
		"warnings", "identificationConfidence", "similarPlants",
		"imageSearchTerms", "imageCount"
	]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("plant_record.json", bytes.NewReader([]byte(recordSchema))); err != nil {
			schemaErr = fmt.Errorf("failed to load record schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("plant_record.json")
	})
	return compiledSchema, schemaErr
}

// ValidateRecord checks a Record against the canonical schema.
func ValidateRecord(rec Record) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("failed to decode record for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("record does not match canonical schema: %w", err)
	}
	return nil
}
