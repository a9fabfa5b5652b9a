package openai

import (
	"context"
	"encoding/json"

	// Packages
	client "github.com/mutablelogic/go-client"
	stockbot "github.com/mutablelogic/go-stockbot"
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithoutSession sends a single message and returns the response (stateless)
func (c *Client) WithoutSession(ctx context.Context, model schema.Model, message *schema.Message, opts ...opt.Opt) (*schema.Message, *schema.Usage, error) {
	if message == nil {
		return nil, nil, stockbot.ErrBadParameter.With("message is required")
	}
	session := schema.Conversation{message}
	return c.generate(ctx, model.Name, &session, opts...)
}

// WithSession sends a message within a conversation and returns the response (stateful)
func (c *Client) WithSession(ctx context.Context, model schema.Model, session *schema.Conversation, message *schema.Message, opts ...opt.Opt) (*schema.Message, *schema.Usage, error) {
	if session == nil {
		return nil, nil, stockbot.ErrBadParameter.With("session is required")
	}
	if message == nil {
		return nil, nil, stockbot.ErrBadParameter.With("message is required")
	}
	session.Append(*message)
	return c.generate(ctx, model.Name, session, opts...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generate is the core method that builds a request from options and sends it
func (c *Client) generate(ctx context.Context, model string, session *schema.Conversation, opts ...opt.Opt) (*schema.Message, *schema.Usage, error) {
	// Apply options
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, nil, err
	}

	// Build request
	request, err := generateRequestFromOpts(model, session, options)
	if err != nil {
		return nil, nil, err
	}

	// Create JSON payload
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, nil, err
	}

	// Send the request
	var response chatCompletionResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("chat", "completions")); err != nil {
		return nil, nil, err
	}

	return c.processResponse(&response, session)
}

// processResponse converts a chat completion response to a schema message and
// appends it to the conversation
func (c *Client) processResponse(response *chatCompletionResponse, session *schema.Conversation) (*schema.Message, *schema.Usage, error) {
	message, err := messageFromChatResponse(response)
	if err != nil {
		return nil, nil, err
	}

	// Append the message to the conversation with token counts
	inputTokens := uint(response.Usage.PromptTokens)
	outputTokens := uint(response.Usage.CompletionTokens)
	session.AppendWithUsage(*message, inputTokens, outputTokens)

	usage := &schema.Usage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}

	// Return an error for finish reasons that need caller attention
	if len(response.Choices) > 0 {
		switch response.Choices[0].FinishReason {
		case finishReasonLength:
			return message, usage, stockbot.ErrMaxTokens
		case finishReasonContentFilter:
			return message, usage, stockbot.ErrRefusal
		}
	}

	return message, usage, nil
}

///////////////////////////////////////////////////////////////////////////////
// REQUEST BUILDING

// generateRequestFromOpts builds a chatCompletionRequest from the conversation
// and applied options
func generateRequestFromOpts(model string, session *schema.Conversation, options opt.Options) (*chatCompletionRequest, error) {
	// Convert conversation to wire message format
	messages, err := openaiMessagesFromConversation(session)
	if err != nil {
		return nil, err
	}

	request := &chatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	// System prompt is prepended as a system role message
	if systemPrompt := options.GetString(opt.SystemPromptKey); systemPrompt != "" {
		sysMsg := openaiMessage{
			Role:    roleSystem,
			Content: &systemPrompt,
		}
		request.Messages = append([]openaiMessage{sysMsg}, request.Messages...)
	}

	// Temperature
	if options.Has(opt.TemperatureKey) {
		v := options.GetFloat64(opt.TemperatureKey)
		request.Temperature = &v
	}

	// Top P
	if options.Has(opt.TopPKey) {
		v := options.GetFloat64(opt.TopPKey)
		request.TopP = &v
	}

	// Max tokens
	if options.Has(opt.MaxTokensKey) {
		v := int(options.GetUint(opt.MaxTokensKey))
		request.MaxTokens = &v
	}

	// Stop sequences
	if ss := options.GetStringArray(opt.StopSequencesKey); len(ss) > 0 {
		request.Stop = ss
	}

	// Seed
	if options.Has(opt.SeedKey) {
		v := int(options.GetUint(opt.SeedKey))
		request.Seed = &v
	}

	// Response format (JSON schema)
	if schemaJSON := options.GetString(opt.JSONSchemaKey); schemaJSON != "" {
		request.ResponseFormat = &responseFormat{
			Type: responseFormatJSONSchema,
			JSONSchema: &jsonSchema{
				Name:   "response",
				Schema: json.RawMessage(schemaJSON),
			},
		}
	}

	// Tools from toolkit
	if v := options.Get(opt.ToolkitKey); v != nil {
		if tk, ok := v.(*tool.Toolkit); ok {
			tools, err := openaiToolsFromToolkit(tk)
			if err != nil {
				return nil, err
			}
			if len(tools) > 0 {
				request.Tools = tools
			}
		}
	}

	return request, nil
}

// GenerateRequest builds a generate request from options without sending it.
// Useful for testing and debugging.
func GenerateRequest(model string, session *schema.Conversation, opts ...opt.Opt) (any, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	return generateRequestFromOpts(model, session, options)
}
