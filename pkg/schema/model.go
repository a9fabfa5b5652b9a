package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Represents an LLM model
type Model struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	OwnedBy     string         `json:"owned_by,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// Provider names
const (
	OpenAI = "openai"
	Gemini = "gemini"
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Model) String() string {
	return types.Stringify(m)
}
