package llm

import (
	"context"
)

// Provider is the interface for all LLM providers. A call is a single bounded
// remote request; retry and timeout policy belong to the provider, not the
// pipeline.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// Recognized option keys for GenerateResponse.
//
//	"model"           string  - override the provider's default model
//	"temperature"     float64 - sampling temperature
//	"response_format" string  - "json_object" requests a JSON-mode reply
const (
	OptModel          = "model"
	OptTemperature    = "temperature"
	OptResponseFormat = "response_format"
)

// Temperature reads the temperature option with a fallback default.
func Temperature(options map[string]interface{}, def float64) float64 {
	if v, ok := options[OptTemperature].(float64); ok {
		return v
	}
	return def
}

// WantsJSON reports whether the caller requested a JSON-mode reply.
func WantsJSON(options map[string]interface{}) bool {
	v, ok := options[OptResponseFormat].(string)
	return ok && v == "json_object"
}
