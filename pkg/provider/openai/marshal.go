package openai

import (
	"encoding/json"

	// Packages
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// CONVERSATION -> WIRE

// openaiMessagesFromConversation converts conversation messages to the wire
// format. Tool result messages are split so each carries exactly one
// tool_call_id, and empty assistant messages are dropped.
func openaiMessagesFromConversation(session *schema.Conversation) ([]openaiMessage, error) {
	if session == nil {
		return nil, nil
	}
	messages := make([]openaiMessage, 0, len(*session))
	for _, msg := range *session {
		if hasToolResult(msg) {
			for i := range msg.Content {
				if msg.Content[i].ToolResult == nil {
					continue
				}
				messages = append(messages, openaiToolResultMessage(msg.Content[i].ToolResult))
			}
			continue
		}

		mm := openaiMessageFromMessage(msg)
		if mm.Content == nil && len(mm.ToolCalls) == 0 {
			continue
		}
		messages = append(messages, mm)
	}
	return messages, nil
}

// openaiMessageFromMessage converts a single message. Text blocks are
// concatenated into the content string and tool calls are carried alongside.
func openaiMessageFromMessage(msg *schema.Message) openaiMessage {
	mm := openaiMessage{
		Role: msg.Role,
	}
	if text := msg.Text(); text != "" {
		mm.Content = &text
	}
	for _, call := range msg.ToolCalls() {
		tc := openaiToolCall{
			Id:   call.ID,
			Type: "function",
			Function: openaiFunction{
				Name: call.Name,
			},
		}
		if len(call.Input) > 0 {
			tc.Function.Arguments = string(call.Input)
		} else {
			tc.Function.Arguments = "{}"
		}
		mm.ToolCalls = append(mm.ToolCalls, tc)
	}
	return mm
}

// openaiToolResultMessage creates a "tool" role message from a ToolResult
func openaiToolResultMessage(tr *schema.ToolResult) openaiMessage {
	content := string(tr.Content)
	return openaiMessage{
		Role:       roleTool,
		Content:    &content,
		ToolCallID: tr.ID,
	}
}

// hasToolResult reports whether any content block is a tool result
func hasToolResult(msg *schema.Message) bool {
	for _, b := range msg.Content {
		if b.ToolResult != nil {
			return true
		}
	}
	return false
}

///////////////////////////////////////////////////////////////////////////////
// WIRE -> MESSAGE

// messageFromChatResponse converts a chat completion response to a message
func messageFromChatResponse(response *chatCompletionResponse) (*schema.Message, error) {
	if response == nil || len(response.Choices) == 0 {
		return &schema.Message{Role: schema.RoleAssistant}, nil
	}
	choice := response.Choices[0]

	message := &schema.Message{
		Role: schema.RoleAssistant,
	}
	if choice.Message.Content != nil && *choice.Message.Content != "" {
		text := *choice.Message.Content
		message.Content = append(message.Content, schema.ContentBlock{Text: &text})
	}
	for _, tc := range choice.Message.ToolCalls {
		message.Content = append(message.Content, schema.ContentBlock{
			ToolCall: &schema.ToolCall{
				ID:    tc.Id,
				Name:  tc.Function.Name,
				Input: json.RawMessage(tc.Function.Arguments),
			},
		})
	}

	message.Result = resultFromFinishReason(choice.FinishReason)
	if len(message.ToolCalls()) > 0 {
		message.Result = schema.ResultToolCall
	}

	return message, nil
}

// resultFromFinishReason maps finish reasons to result types
func resultFromFinishReason(reason string) schema.ResultType {
	switch reason {
	case finishReasonStop, "":
		return schema.ResultStop
	case finishReasonLength:
		return schema.ResultMaxTokens
	case finishReasonToolCalls:
		return schema.ResultToolCall
	case finishReasonContentFilter:
		return schema.ResultBlocked
	default:
		return schema.ResultOther
	}
}

///////////////////////////////////////////////////////////////////////////////
// TOOLKIT -> WIRE

// openaiToolsFromToolkit converts toolkit tools to tool definitions
func openaiToolsFromToolkit(tk *tool.Toolkit) ([]toolDefinition, error) {
	var result []toolDefinition
	for _, t := range tk.Tools() {
		s, err := t.Schema()
		if err != nil {
			continue
		}
		data, err := json.Marshal(s)
		if err != nil {
			continue
		}
		result = append(result, toolDefinition{
			Type: "function",
			Function: toolFunctionDef{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  data,
			},
		})
	}
	return result, nil
}
