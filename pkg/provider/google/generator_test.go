package google

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
	request, err := GenerateRequest(&session,
		opt.WithSystemPrompt("You translate requests into SQL."),
		opt.WithTemperature(0.5),
		opt.WithMaxTokens(1024),
	)
	assert.NoError(err)

	data, err := json.Marshal(request)
	assert.NoError(err)

	var decoded map[string]any
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Contains(decoded, "contents")
	assert.Contains(decoded, "systemInstruction")

	config, ok := decoded["generationConfig"].(map[string]any)
	if assert.True(ok) {
		assert.Equal(0.5, config["temperature"])
		assert.Equal(float64(1024), config["maxOutputTokens"])
	}
}

func Test_generator_002(t *testing.T) {
	assert := assert.New(t)

	// No options: generationConfig is omitted entirely
	session := schema.Conversation{
		schema.NewMessage(schema.RoleUser, "hello"),
	}
	request, err := GenerateRequest(&session)
	assert.NoError(err)

	data, err := json.Marshal(request)
	assert.NoError(err)

	var decoded map[string]any
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.NotContains(decoded, "generationConfig")
	assert.NotContains(decoded, "systemInstruction")
	assert.NotContains(decoded, "tools")
}

func Test_generator_003(t *testing.T) {
	assert := assert.New(t)

	// Invalid options surface as errors
	session := schema.Conversation{
		schema.NewMessage(schema.RoleUser, "hello"),
	}
	_, err := GenerateRequest(&session, opt.WithTemperature(3))
	assert.Error(err)

	// An empty conversation cannot be sent
	empty := schema.Conversation{}
	_, err = GenerateRequest(&empty)
	assert.Error(err)
}
