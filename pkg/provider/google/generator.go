package google

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
	request, err := generateRequestFromOpts(session, options)
	if err != nil {
		return nil, nil, err
	}

	// Create JSON payload
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, nil, err
	}

	// Send the request
	var response geminiGenerateResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("models", model+":generateContent")); err != nil {
		return nil, nil, err
	}

	return c.processResponse(&response, session)
}

// processResponse converts a gemini response to a schema message and appends it
// to the conversation
func (c *Client) processResponse(response *geminiGenerateResponse, session *schema.Conversation) (*schema.Message, *schema.Usage, error) {
	message, err := messageFromGeminiResponse(response)
	if err != nil {
		return nil, nil, err
	}

	// Append the message to the conversation with token counts
	var inputTokens, outputTokens uint
	if response.UsageMetadata != nil {
		inputTokens = uint(response.UsageMetadata.PromptTokenCount)
		outputTokens = uint(response.UsageMetadata.CandidatesTokenCount)
	}
	session.AppendWithUsage(*message, inputTokens, outputTokens)

	usage := &schema.Usage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}

	// Return an error for finish reasons that need caller attention
	if len(response.Candidates) > 0 {
		switch response.Candidates[0].FinishReason {
		case geminiFinishReasonMaxTokens:
			return message, usage, stockbot.ErrMaxTokens
		case geminiFinishReasonSafety, geminiFinishReasonProhibitedContent, geminiFinishReasonBlocklist:
			return message, usage, stockbot.ErrRefusal
		}
	}

	return message, usage, nil
}

///////////////////////////////////////////////////////////////////////////////
// REQUEST BUILDING

// generateRequestFromOpts builds a geminiGenerateRequest from the conversation
// and applied options
func generateRequestFromOpts(session *schema.Conversation, options opt.Options) (*geminiGenerateRequest, error) {
	// Convert conversation messages to wire contents
	contents, err := geminiContentsFromConversation(session)
	if err != nil {
		return nil, err
	}

	request := &geminiGenerateRequest{
		Contents: contents,
	}

	// System instruction
	if systemPrompt := options.GetString(opt.SystemPromptKey); systemPrompt != "" {
		request.SystemInstruction = &geminiContent{
			Parts: []*geminiPart{{Text: systemPrompt}},
		}
	}

	// Generation config — the omitzero tag ensures the whole block is
	// omitted when nothing is configured.
	if options.Has(opt.TemperatureKey) {
		v := options.GetFloat64(opt.TemperatureKey)
		request.GenerationConfig.Temperature = &v
	}
	if options.Has(opt.MaxTokensKey) {
		request.GenerationConfig.MaxOutputTokens = int(options.GetUint(opt.MaxTokensKey))
	}
	if options.Has(opt.TopKKey) {
		v := int(options.GetUint(opt.TopKKey))
		request.GenerationConfig.TopK = &v
	}
	if options.Has(opt.TopPKey) {
		v := options.GetFloat64(opt.TopPKey)
		request.GenerationConfig.TopP = &v
	}
	if ss := options.GetStringArray(opt.StopSequencesKey); len(ss) > 0 {
		request.GenerationConfig.StopSequences = ss
	}
	if options.Has(opt.SeedKey) {
		seed := int(options.GetUint(opt.SeedKey))
		request.GenerationConfig.Seed = &seed
	}
	if schemaJSON := options.GetString(opt.JSONSchemaKey); schemaJSON != "" {
		var s any
		if err := json.Unmarshal([]byte(schemaJSON), &s); err != nil {
			return nil, stockbot.ErrBadParameter.Withf("invalid JSON schema: %v", err)
		}
		request.GenerationConfig.ResponseMIMEType = "application/json"
		request.GenerationConfig.ResponseJSONSchema = s
	}

	// Tools from toolkit
	if v := options.Get(opt.ToolkitKey); v != nil {
		if tk, ok := v.(*tool.Toolkit); ok {
			decls := geminiFunctionDeclsFromToolkit(tk)
			if len(decls) > 0 {
				request.Tools = []*geminiTool{{
					FunctionDeclarations: decls,
				}}
			}
		}
	}

	return request, nil
}

// GenerateRequest builds a generate request from options without sending it.
// Useful for testing and debugging.
func GenerateRequest(session *schema.Conversation, opts ...opt.Opt) (any, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	return generateRequestFromOpts(session, options)
}
