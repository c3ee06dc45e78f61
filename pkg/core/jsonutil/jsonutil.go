// Package jsonutil parses structured output from LLM replies. Models are
// asked for JSON but the reply is not guaranteed to be valid, so parsing
// escalates through progressively more lenient strategies before the caller
// falls back to carrying the raw text.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripFences removes conversational filler and an outer markdown code block
// (e.g. ```json ... ```) wrapping the payload.
func StripFences(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	// Drop the fence line including any language tag.
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = cleaned[idx+1:]
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// Repair attempts to fix common JSON errors in LLM output: single quotes,
// unquoted keys, trailing commas, unclosed brackets.
func Repair(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// SmartParse tries multiple strategies to unmarshal input into schema:
//  1. standard JSON parse
//  2. json-repair then parse
//  3. hjson (most lenient)
//
// Code fences are stripped up front. The error reports that every strategy
// failed; callers treat that as the signal to build a fallback object.
func SmartParse(input string, schema interface{}) error {
	cleaned := StripFences(input)

	if err := json.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	if repaired, err := Repair(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	if err := hjson.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	return fmt.Errorf("smart parse failed: all parsing strategies exhausted")
}
