package openai

import (
	"encoding/json"
	"testing"

	// Packages
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_generator_001(t *testing.T) {
	assert := assert.New(t)

	session := schema.Conversation{
		schema.NewMessage(schema.RoleUser, "hello"),
	}
	request, err := GenerateRequest("gpt-4o-mini", &session,
		opt.WithSystemPrompt("You are a stock analyst."),
		opt.WithTemperature(0.5),
	)
	assert.NoError(err)

	data, err := json.Marshal(request)
	assert.NoError(err)

	var decoded map[string]any
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Equal("gpt-4o-mini", decoded["model"])
	assert.Equal(0.5, decoded["temperature"])

	// System prompt goes first in the messages array
	messages, ok := decoded["messages"].([]any)
	if assert.True(ok) && assert.Len(messages, 2) {
		first, _ := messages[0].(map[string]any)
		assert.Equal("system", first["role"])
		assert.Equal("You are a stock analyst.", first["content"])
	}
}

func Test_generator_002(t *testing.T) {
	assert := assert.New(t)

	// Optional parameters are omitted when not set
	session := schema.Conversation{
		schema.NewMessage(schema.RoleUser, "hello"),
	}
	request, err := GenerateRequest("gpt-4o-mini", &session)
	assert.NoError(err)

	data, err := json.Marshal(request)
	assert.NoError(err)

	var decoded map[string]any
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.NotContains(decoded, "temperature")
	assert.NotContains(decoded, "tools")
	assert.NotContains(decoded, "response_format")
}

func Test_generator_003(t *testing.T) {
	assert := assert.New(t)

	// Invalid options surface as errors
	session := schema.Conversation{
		schema.NewMessage(schema.RoleUser, "hello"),
	}
	_, err := GenerateRequest("gpt-4o-mini", &session, opt.WithTopP(1.5))
	assert.Error(err)
}
