package agent

import (
	"context"
	"sync"

	// Packages
	stockbot "github.com/mutablelogic/go-stockbot"
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// AskRequest is a stateless completion request
type AskRequest struct {
	Provider     string  // Provider name, or empty to search all
	Model        string  // Model name
	SystemPrompt string  // Optional system prompt
	Text         string  // User message
	Temperature  *float64
	MaxTokens    uint
}

// ChatRequest is a stateful request which may invoke tools
type ChatRequest struct {
	Provider      string
	Model         string
	SystemPrompt  string
	Text          string
	Session       *schema.Conversation // Conversation history, appended in place
	MaxIterations uint                 // Tool-calling iteration cap, 0 for default
	Progress      ProgressFn           // Optional per-tool-call feedback
}

// Response is the result of an Ask or Chat call
type Response struct {
	Text   string
	Result schema.ResultType
	Usage  *schema.Usage
}

// ProgressFn receives feedback as tools are invoked during a chat
type ProgressFn func(text string)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// DefaultMaxIterations caps the tool-calling loop
const DefaultMaxIterations = 10

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Ask processes a message and returns a response, outside of a session
// context (stateless). No tools are offered to the model.
func (m *Manager) Ask(ctx context.Context, request AskRequest) (*Response, error) {
	model, generator, opts, err := m.generatorForRequest(ctx, request.Provider, request.Model, request.SystemPrompt)
	if err != nil {
		return nil, err
	}
	if request.Temperature != nil {
		opts = append(opts, opt.WithTemperature(*request.Temperature))
	}
	if request.MaxTokens > 0 {
		opts = append(opts, opt.WithMaxTokens(request.MaxTokens))
	}

	// Send the message
	message := schema.NewMessage(schema.RoleUser, request.Text)
	result, usage, err := generator.WithoutSession(ctx, *model, message, opts...)
	if err != nil {
		return nil, err
	}

	return &Response{
		Text:   result.Text(),
		Result: result.Result,
		Usage:  usage,
	}, nil
}

// Chat processes a message within a conversation (stateful). When the model
// requests tool calls, they are executed and the results fed back until the
// model produces a final response or the iteration limit is reached.
func (m *Manager) Chat(ctx context.Context, request ChatRequest) (*Response, error) {
	if request.Session == nil {
		return nil, stockbot.ErrBadParameter.With("session is required")
	}

	model, generator, opts, err := m.generatorForRequest(ctx, request.Provider, request.Model, request.SystemPrompt)
	if err != nil {
		return nil, err
	}

	// Offer tools when the toolkit has any
	if len(m.toolkit.Tools()) > 0 {
		opts = append(opts, tool.WithToolkit(m.toolkit))
	}

	// Snapshot the conversation length so we can roll back if the
	// tool-calling loop exhausts its iterations
	snapshot := len(*request.Session)

	// Send the message within the conversation
	message := schema.NewMessage(schema.RoleUser, request.Text)
	result, usage, err := generator.WithSession(ctx, *model, request.Session, message, opts...)
	if err != nil {
		return nil, err
	}

	// Tool-calling loop: execute requested tool calls and feed results back
	// until we get a final response or hit the limit
	maxIter := request.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	for i := uint(0); i < maxIter && result.Result == schema.ResultToolCall; i++ {
		toolCalls := result.ToolCalls()
		if len(toolCalls) == 0 {
			break
		}

		// Execute tool calls in parallel, then send the results back to the
		// model for the next iteration
		toolMessage := &schema.Message{
			Role:    schema.RoleTool,
			Content: m.runTools(ctx, toolCalls, request.Progress),
		}

		var u *schema.Usage
		result, u, err = generator.WithSession(ctx, *model, request.Session, toolMessage, opts...)
		if err != nil {
			return nil, err
		}
		if usage == nil {
			usage = u
		} else {
			usage.Add(u)
		}
	}

	// If we exhausted the iteration limit while the model still wants tool
	// calls, roll back the conversation and report the condition
	if result.Result == schema.ResultToolCall {
		*request.Session = (*request.Session)[:snapshot]
		result.Result = schema.ResultMaxIterations
	}

	return &Response{
		Text:   result.Text(),
		Result: result.Result,
		Usage:  usage,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generatorForRequest resolves the model and generator client, and returns
// baseline options
func (m *Manager) generatorForRequest(ctx context.Context, provider, model, systemPrompt string) (*schema.Model, stockbot.Generator, []opt.Opt, error) {
	resolved, err := m.getModel(ctx, provider, model)
	if err != nil {
		return nil, nil, nil, err
	}

	client := m.clientForModel(resolved)
	if client == nil {
		return nil, nil, nil, stockbot.ErrNotFound.Withf("no provider found for model: %s", model)
	}
	generator, ok := client.(stockbot.Generator)
	if !ok {
		return nil, nil, nil, stockbot.ErrNotImplemented.Withf("provider %q does not support messaging", client.Name())
	}

	var opts []opt.Opt
	if systemPrompt != "" {
		opts = append(opts, opt.WithSystemPrompt(systemPrompt))
	}
	return resolved, generator, opts, nil
}

// runTools executes the given tool calls in parallel and returns the results
// as content blocks in the same order as the input calls. If fn is non-nil,
// tool feedback is reported before execution begins.
func (m *Manager) runTools(ctx context.Context, calls []schema.ToolCall, fn ProgressFn) []schema.ContentBlock {
	results := make([]schema.ContentBlock, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		if fn != nil {
			fn(m.toolkit.Feedback(call))
		}
		wg.Add(1)
		go func(i int, call schema.ToolCall) {
			defer wg.Done()
			output, err := m.toolkit.Run(ctx, call.Name, call.Input)
			if err != nil {
				results[i] = schema.NewToolError(call.ID, call.Name, err)
			} else {
				results[i] = schema.NewToolResult(call.ID, call.Name, output)
			}
		}(i, call)
	}
	wg.Wait()
	return results
}
