package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_message_001(t *testing.T) {
	assert := assert.New(t)

	msg := schema.NewMessage(schema.RoleUser, "show me Apple in March")
	assert.Equal(schema.RoleUser, msg.Role)
	assert.Equal("show me Apple in March", msg.Text())
	assert.Empty(msg.ToolCalls())
}

func Test_message_002(t *testing.T) {
	assert := assert.New(t)

	msg := &schema.Message{
		Role: schema.RoleAssistant,
		Content: []schema.ContentBlock{
			{ToolCall: &schema.ToolCall{ID: "call_1", Name: "query_stock_prices", Input: json.RawMessage(`{"ticker":"AAPL"}`)}},
		},
		Result: schema.ResultToolCall,
	}
	calls := msg.ToolCalls()
	assert.Len(calls, 1)
	assert.Equal("query_stock_prices", calls[0].Name)
	assert.Equal("", msg.Text())
}

func Test_message_003(t *testing.T) {
	assert := assert.New(t)

	block := schema.NewToolResult("call_1", "query_stock_prices", map[string]any{"rows": 3})
	assert.NotNil(block.ToolResult)
	assert.False(block.ToolResult.IsError)
	assert.JSONEq(`{"rows":3}`, string(block.ToolResult.Content))

	block = schema.NewToolError("call_1", "query_stock_prices", errors.New("boom"))
	assert.NotNil(block.ToolResult)
	assert.True(block.ToolResult.IsError)
}

func Test_conversation_001(t *testing.T) {
	assert := assert.New(t)

	var c schema.Conversation
	c.Append(*schema.NewMessage(schema.RoleUser, "hello"))
	c.AppendWithUsage(*schema.NewMessage(schema.RoleAssistant, "hi"), 10, 5)

	assert.Len(c, 2)
	assert.Equal(uint(10), c[0].Tokens)
	assert.Equal(uint(5), c[1].Tokens)
	assert.Equal(uint(15), c.Tokens())
}

func Test_resulttype_001(t *testing.T) {
	assert := assert.New(t)

	for _, r := range []schema.ResultType{
		schema.ResultStop, schema.ResultMaxTokens, schema.ResultBlocked,
		schema.ResultToolCall, schema.ResultMaxIterations, schema.ResultOther,
	} {
		data, err := json.Marshal(r)
		assert.NoError(err)
		var decoded schema.ResultType
		assert.NoError(json.Unmarshal(data, &decoded))
		assert.Equal(r, decoded)
	}
}
