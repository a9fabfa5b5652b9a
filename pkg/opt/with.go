package opt

import (
	"encoding/json"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GENERATION OPTIONS

// WithSystemPrompt sets the system prompt for the generation
func WithSystemPrompt(prompt string) Opt {
	if prompt == "" {
		return Error(fmt.Errorf("system prompt is required"))
	}
	return SetString(SystemPromptKey, prompt)
}

// WithTemperature sets the sampling temperature, between 0 and 2
func WithTemperature(temperature float64) Opt {
	if temperature < 0 || temperature > 2 {
		return Error(fmt.Errorf("temperature out of range: %f", temperature))
	}
	return SetFloat64(TemperatureKey, temperature)
}

// WithMaxTokens sets the maximum number of tokens to generate
func WithMaxTokens(tokens uint) Opt {
	if tokens == 0 {
		return Error(fmt.Errorf("max tokens must be positive"))
	}
	return SetUint(MaxTokensKey, tokens)
}

// WithTopP sets nucleus sampling probability mass, between 0 and 1
func WithTopP(topP float64) Opt {
	if topP < 0 || topP > 1 {
		return Error(fmt.Errorf("top_p out of range: %f", topP))
	}
	return SetFloat64(TopPKey, topP)
}

// WithTopK sets the number of highest-probability tokens to sample from
func WithTopK(topK uint) Opt {
	if topK == 0 {
		return Error(fmt.Errorf("top_k must be positive"))
	}
	return SetUint(TopKKey, topK)
}

// WithStopSequences adds one or more sequences that stop generation
func WithStopSequences(sequences ...string) Opt {
	if len(sequences) == 0 {
		return Error(fmt.Errorf("at least one stop sequence is required"))
	}
	return AddString(StopSequencesKey, sequences...)
}

// WithJSONOutput constrains the response to JSON matching the given schema
func WithJSONOutput(schema any) Opt {
	data, err := json.Marshal(schema)
	if err != nil {
		return Error(fmt.Errorf("invalid JSON schema: %w", err))
	}
	return SetString(JSONSchemaKey, string(data))
}

// WithSeed sets the random seed for reproducible sampling
func WithSeed(seed uint) Opt {
	return SetUint(SeedKey, seed)
}
