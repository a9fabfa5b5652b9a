package agent

import (
	"context"
	"encoding/json"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// STUBS

// stubClient is a provider that replays a scripted sequence of responses
type stubClient struct {
	name      string
	models    []schema.Model
	responses []*schema.Message
	calls     int
}

func (c *stubClient) Name() string {
	return c.name
}

func (c *stubClient) ListModels(_ context.Context, _ ...opt.Opt) ([]schema.Model, error) {
	return c.models, nil
}

func (c *stubClient) GetModel(_ context.Context, name string) (*schema.Model, error) {
	for _, m := range c.models {
		if m.Name == name {
			return &m, nil
		}
	}
	return nil, nil
}

func (c *stubClient) WithoutSession(ctx context.Context, model schema.Model, message *schema.Message, opts ...opt.Opt) (*schema.Message, *schema.Usage, error) {
	session := schema.Conversation{message}
	return c.WithSession(ctx, model, &session, nil, opts...)
}

func (c *stubClient) WithSession(_ context.Context, _ schema.Model, session *schema.Conversation, message *schema.Message, _ ...opt.Opt) (*schema.Message, *schema.Usage, error) {
	if message != nil {
		session.Append(*message)
	}
	response := c.responses[c.calls]
	c.calls++
	session.Append(*response)
	return response, &schema.Usage{InputTokens: 10, OutputTokens: 5}, nil
}

// echoTool returns its input unchanged
type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echo the input" }
func (echoTool) Schema() (*jsonschema.Schema, error) {
	return nil, nil
}
func (echoTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	return map[string]any{"echo": string(input)}, nil
}

func textMessage(text string) *schema.Message {
	msg := schema.NewMessage(schema.RoleAssistant, text)
	msg.Result = schema.ResultStop
	return msg
}

func toolCallMessage(name string) *schema.Message {
	return &schema.Message{
		Role: schema.RoleAssistant,
		Content: []schema.ContentBlock{
			{ToolCall: &schema.ToolCall{ID: "call_1", Name: name, Input: json.RawMessage(`{}`)}},
		},
		Result: schema.ResultToolCall,
	}
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_manager_001(t *testing.T) {
	assert := assert.New(t)

	client := &stubClient{
		name:   "stub",
		models: []schema.Model{{Name: "stub-1", OwnedBy: "stub"}},
	}
	manager, err := NewManager(WithClient(client))
	assert.NoError(err)
	assert.Equal([]string{"stub"}, manager.Providers())

	// Model resolution with and without a provider filter
	models, err := manager.ListModels(context.TODO(), "")
	assert.NoError(err)
	assert.Len(models, 1)

	_, err = manager.ListModels(context.TODO(), "nonexistent")
	assert.Error(err)
}

func Test_manager_002(t *testing.T) {
	assert := assert.New(t)

	client := &stubClient{
		name:      "stub",
		models:    []schema.Model{{Name: "stub-1", OwnedBy: "stub"}},
		responses: []*schema.Message{textMessage("hello back")},
	}
	manager, err := NewManager(WithClient(client))
	assert.NoError(err)

	response, err := manager.Ask(context.TODO(), AskRequest{
		Model: "stub-1",
		Text:  "hello",
	})
	assert.NoError(err)
	assert.Equal("hello back", response.Text)
	assert.Equal(schema.ResultStop, response.Result)
	if assert.NotNil(response.Usage) {
		assert.Equal(uint(10), response.Usage.InputTokens)
	}
}

func Test_manager_003(t *testing.T) {
	assert := assert.New(t)

	// The model calls a tool once, then produces a final answer
	client := &stubClient{
		name:   "stub",
		models: []schema.Model{{Name: "stub-1", OwnedBy: "stub"}},
		responses: []*schema.Message{
			toolCallMessage("echo"),
			textMessage("done"),
		},
	}
	toolkit, err := tool.NewToolkit(echoTool{})
	assert.NoError(err)
	manager, err := NewManager(WithClient(client), WithToolkit(toolkit))
	assert.NoError(err)

	var progress []string
	session := schema.Conversation{}
	response, err := manager.Chat(context.TODO(), ChatRequest{
		Model:   "stub-1",
		Text:    "run echo",
		Session: &session,
		Progress: func(text string) {
			progress = append(progress, text)
		},
	})
	assert.NoError(err)
	assert.Equal("done", response.Text)
	assert.Equal(schema.ResultStop, response.Result)
	assert.Equal(2, client.calls)
	assert.Len(progress, 1)

	// Conversation holds user, tool call, tool result, final answer
	assert.Len(session, 4)
	assert.Equal(schema.RoleTool, session[2].Role)

	// Usage accumulated across both calls
	if assert.NotNil(response.Usage) {
		assert.Equal(uint(20), response.Usage.InputTokens)
	}
}

func Test_manager_004(t *testing.T) {
	assert := assert.New(t)

	// The model never stops calling tools: the loop caps out and the
	// conversation is rolled back
	responses := make([]*schema.Message, 0, 4)
	for i := 0; i < 4; i++ {
		responses = append(responses, toolCallMessage("echo"))
	}
	client := &stubClient{
		name:      "stub",
		models:    []schema.Model{{Name: "stub-1", OwnedBy: "stub"}},
		responses: responses,
	}
	toolkit, err := tool.NewToolkit(echoTool{})
	assert.NoError(err)
	manager, err := NewManager(WithClient(client), WithToolkit(toolkit))
	assert.NoError(err)

	session := schema.Conversation{}
	response, err := manager.Chat(context.TODO(), ChatRequest{
		Model:         "stub-1",
		Text:          "loop forever",
		Session:       &session,
		MaxIterations: 3,
	})
	assert.NoError(err)
	assert.Equal(schema.ResultMaxIterations, response.Result)
	assert.Empty(session)
}

func Test_manager_005(t *testing.T) {
	assert := assert.New(t)

	// Unknown model and missing session are rejected
	client := &stubClient{
		name:   "stub",
		models: []schema.Model{{Name: "stub-1", OwnedBy: "stub"}},
	}
	manager, err := NewManager(WithClient(client))
	assert.NoError(err)

	_, err = manager.Ask(context.TODO(), AskRequest{Model: "missing", Text: "hi"})
	assert.Error(err)

	_, err = manager.Chat(context.TODO(), ChatRequest{Model: "stub-1", Text: "hi"})
	assert.Error(err)
}
