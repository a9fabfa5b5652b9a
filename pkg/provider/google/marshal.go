package google

import (
	"encoding/json"

	// Packages
	uuid "github.com/google/uuid"
	stockbot "github.com/mutablelogic/go-stockbot"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// CONVERSATION -> WIRE

// geminiContentsFromConversation converts conversation messages to wire
// contents. System messages are skipped (they travel as systemInstruction)
// and assistant messages with no content are dropped.
func geminiContentsFromConversation(session *schema.Conversation) ([]*geminiContent, error) {
	contents := make([]*geminiContent, 0, len(*session))
	for _, message := range *session {
		if message.Role == schema.RoleSystem {
			continue
		}
		parts, err := geminiPartsFromMessage(message)
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &geminiContent{
			Role:  geminiRole(message.Role),
			Parts: parts,
		})
	}
	if len(contents) == 0 {
		return nil, stockbot.ErrBadParameter.With("conversation has no content")
	}
	return contents, nil
}

// geminiRole maps universal roles to the two roles the API accepts
func geminiRole(role string) string {
	if role == schema.RoleAssistant {
		return "model"
	}
	return "user"
}

// geminiPartsFromMessage converts the content blocks of a message to parts
func geminiPartsFromMessage(message *schema.Message) ([]*geminiPart, error) {
	parts := make([]*geminiPart, 0, len(message.Content))
	for _, block := range message.Content {
		switch {
		case block.Text != nil:
			if *block.Text == "" {
				continue
			}
			parts = append(parts, &geminiPart{Text: *block.Text})
		case block.ToolCall != nil:
			args := make(map[string]any)
			if len(block.ToolCall.Input) > 0 {
				if err := json.Unmarshal(block.ToolCall.Input, &args); err != nil {
					return nil, stockbot.ErrBadParameter.Withf("invalid tool call input: %v", err)
				}
			}
			parts = append(parts, &geminiPart{
				FunctionCall: &geminiFunctionCall{
					Name: block.ToolCall.Name,
					Args: args,
				},
			})
		case block.ToolResult != nil:
			parts = append(parts, &geminiPart{
				FunctionResponse: &geminiFunctionResult{
					Name:     block.ToolResult.Name,
					Response: geminiResponseMap(block.ToolResult),
				},
			})
		}
	}
	return parts, nil
}

// geminiResponseMap wraps a tool result in the object the API requires.
// Non-object results are wrapped under "result", errors under "error".
func geminiResponseMap(result *schema.ToolResult) map[string]any {
	if result.IsError {
		var msg string
		if err := json.Unmarshal(result.Content, &msg); err != nil {
			msg = string(result.Content)
		}
		return map[string]any{"error": msg}
	}
	asMap := make(map[string]any)
	if err := json.Unmarshal(result.Content, &asMap); err == nil {
		return asMap
	}
	var v any
	if err := json.Unmarshal(result.Content, &v); err != nil {
		v = string(result.Content)
	}
	return map[string]any{"result": v}
}

///////////////////////////////////////////////////////////////////////////////
// WIRE -> MESSAGE

// messageFromGeminiResponse converts a generate response to a message.
// Function calls carry no IDs on the wire, so each call is assigned one
// locally to correlate results.
func messageFromGeminiResponse(response *geminiGenerateResponse) (*schema.Message, error) {
	if len(response.Candidates) == 0 {
		return nil, stockbot.ErrInternalServerError.With("response has no candidates")
	}
	candidate := response.Candidates[0]

	message := &schema.Message{
		Role: schema.RoleAssistant,
	}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				input, err := json.Marshal(part.FunctionCall.Args)
				if err != nil {
					return nil, stockbot.ErrInternalServerError.Withf("invalid function call args: %v", err)
				}
				message.Content = append(message.Content, schema.ContentBlock{
					ToolCall: &schema.ToolCall{
						ID:    uuid.New().String(),
						Name:  part.FunctionCall.Name,
						Input: json.RawMessage(input),
					},
				})
			case part.Text != "":
				text := part.Text
				message.Content = append(message.Content, schema.ContentBlock{Text: &text})
			}
		}
	}

	// Map the finish reason to a result type
	switch candidate.FinishReason {
	case geminiFinishReasonStop, "":
		if len(message.ToolCalls()) > 0 {
			message.Result = schema.ResultToolCall
		} else {
			message.Result = schema.ResultStop
		}
	case geminiFinishReasonMaxTokens:
		message.Result = schema.ResultMaxTokens
	case geminiFinishReasonSafety, geminiFinishReasonProhibitedContent, geminiFinishReasonBlocklist:
		message.Result = schema.ResultBlocked
	default:
		message.Result = schema.ResultOther
	}

	return message, nil
}

///////////////////////////////////////////////////////////////////////////////
// TOOLKIT -> WIRE

// geminiFunctionDeclsFromToolkit converts toolkit tools to function
// declarations. Schemas are converted through a JSON round-trip since the
// API accepts plain JSON schema objects.
func geminiFunctionDeclsFromToolkit(tk *tool.Toolkit) []*geminiFunctionDeclaration {
	tools := tk.Tools()
	decls := make([]*geminiFunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &geminiFunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
		}
		if s, err := t.Schema(); err == nil && s != nil {
			if data, err := json.Marshal(s); err == nil {
				var params map[string]any
				if err := json.Unmarshal(data, &params); err == nil {
					decl.ParametersJSONSchema = params
				}
			}
		}
		decls = append(decls, decl)
	}
	return decls
}
