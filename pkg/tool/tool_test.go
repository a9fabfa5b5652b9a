package tool_test

import (
	"context"
	"encoding/json"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
	assert "github.com/stretchr/testify/assert"
)

type stubTool struct {
	name   string
	schema *jsonschema.Schema
	ran    json.RawMessage
}

func (s *stubTool) Name() string                          { return s.name }
func (s *stubTool) Description() string                   { return "stub" }
func (s *stubTool) Schema() (*jsonschema.Schema, error)   { return s.schema, nil }
func (s *stubTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	s.ran = input
	return "ok", nil
}

func Test_toolkit_001(t *testing.T) {
	assert := assert.New(t)

	tk, err := tool.NewToolkit(&stubTool{name: "my_tool"})
	assert.NoError(err)
	assert.NotNil(tk.Lookup("my_tool"))
	assert.Nil(tk.Lookup("other_tool"))
	assert.Len(tk.Tools(), 1)
}

func Test_toolkit_002(t *testing.T) {
	assert := assert.New(t)

	// Duplicate names are rejected
	_, err := tool.NewToolkit(&stubTool{name: "my_tool"}, &stubTool{name: "my_tool"})
	assert.Error(err)

	// Invalid names are rejected
	_, err = tool.NewToolkit(&stubTool{name: "not a name"})
	assert.Error(err)
}

func Test_toolkit_003(t *testing.T) {
	assert := assert.New(t)

	stub := &stubTool{name: "my_tool"}
	tk, err := tool.NewToolkit(stub)
	assert.NoError(err)

	// Unknown tool
	_, err = tk.Run(context.TODO(), "missing", nil)
	assert.Error(err)

	// Nil input runs the tool
	out, err := tk.Run(context.TODO(), "my_tool", nil)
	assert.NoError(err)
	assert.Equal("ok", out)

	// Raw JSON input is passed through
	out, err = tk.Run(context.TODO(), "my_tool", json.RawMessage(`{"ticker":"AAPL"}`))
	assert.NoError(err)
	assert.Equal("ok", out)
	assert.JSONEq(`{"ticker":"AAPL"}`, string(stub.ran))
}

func Test_toolkit_004(t *testing.T) {
	assert := assert.New(t)

	// Schema validation rejects input missing a required property
	schema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"ticker"},
		Properties: map[string]*jsonschema.Schema{
			"ticker": {Type: "string"},
		},
	}
	tk, err := tool.NewToolkit(&stubTool{name: "my_tool", schema: schema})
	assert.NoError(err)

	_, err = tk.Run(context.TODO(), "my_tool", json.RawMessage(`{}`))
	assert.Error(err)

	_, err = tk.Run(context.TODO(), "my_tool", json.RawMessage(`{"ticker":"AAPL"}`))
	assert.NoError(err)
}
