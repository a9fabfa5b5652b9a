package openai

import (
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_model_001(t *testing.T) {
	assert := assert.New(t)

	// OwnedBy routes the model to this provider; the wire value (which
	// reports "system" or "openai-internal") goes into the metadata
	model := toModel(&openaiModel{Id: "gpt-4o-mini", OwnedBy: "system", Created: 1715367049})
	assert.Equal("gpt-4o-mini", model.Name)
	assert.Equal(schema.OpenAI, model.OwnedBy)
	assert.Equal("system", model.Meta["owned_by"])
	assert.Equal(int64(1715367049), model.Meta["created"])
}
