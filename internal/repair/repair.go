// Package repair recovers structured records from malformed model output.
//
// The upstream generative model is not contractually bound to emit valid
// JSON: prose preambles, markdown fences, single-quoted strings, bare keys
// and trailing commas are all observed failure modes. Recover tries a fixed
// sequence of increasingly aggressive strategies; ExtractFields (extract.go)
// is the regex last resort when none of them yield parseable JSON.
package repair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoRecoverableJSON is returned when every parsing strategy fails.
var ErrNoRecoverableJSON = errors.New("no recoverable JSON in model output")

// strategy produces a candidate JSON string from raw model output.
// Returning ok=false means the strategy does not apply to this input.
type strategy struct {
	name  string
	apply func(string) (string, bool)
}

var strategies = []strategy{
	{"direct", direct},
	{"strip-fences", stripFences},
	{"outer-braces", outerBraces},
	{"textual-repair", textualRepair},
	{"inner-object", innerObject},
}

// Recover parses raw model output into a generic record, trying each
// strategy in order. The first candidate that parses to a JSON object wins.
func Recover(raw string) (map[string]any, error) {
	for _, s := range strategies {
		candidate, ok := s.apply(raw)
		if !ok {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(candidate), &record); err != nil {
			continue
		}
		// A JSON "null" decodes without error into a nil map; that is
		// not a recovered record.
		if record == nil {
			continue
		}
		return record, nil
	}
	return nil, ErrNoRecoverableJSON
}

func direct(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// stripFences removes a surrounding markdown code fence, tolerating a
// language tag on the opening fence and prose around the block.
func stripFences(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	open := strings.Index(trimmed, "```")
	if open < 0 {
		return "", false
	}
	rest := trimmed[open+3:]
	// Drop the optional language tag up to the first newline.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(rest[:nl]); tag == "" || isLanguageTag(tag) {
			rest = rest[nl+1:]
		}
	}
	if close := strings.Index(rest, "```"); close >= 0 {
		rest = rest[:close]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

func isLanguageTag(tag string) bool {
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// outerBraces extracts the greedy substring from the first '{' to the
// last '}'.
func outerBraces(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	singleQuotedRe  = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// textualRepair applies a sequence of source-level fixes before parsing:
// prose outside the outermost braces is dropped, trailing commas removed,
// single-quoted strings converted to double-quoted, and bare object keys
// quoted.
func textualRepair(raw string) (string, bool) {
	s, ok := outerBraces(raw)
	if !ok {
		return "", false
	}
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = singleQuotedRe.ReplaceAllString(s, `"$1"`)
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	return s, true
}

// innerObject isolates the first balanced JSON object when the text holds
// several JSON-like fragments (nested or sequential objects). The scan is
// string-aware so braces inside quoted values do not miscount.
func innerObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
