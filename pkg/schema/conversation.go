package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Conversation is a sequence of messages exchanged with an LLM
type Conversation []*Message

// Usage reports token consumption for one or more generation calls
type Usage struct {
	InputTokens  uint `json:"input_tokens"`
	OutputTokens uint `json:"output_tokens"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Append adds a message to the conversation
func (c *Conversation) Append(message Message) {
	*c = append(*c, &message)
}

// AppendWithUsage adds a generated message to the conversation, attributing
// input tokens to the preceding messages and output tokens to the new one
func (c *Conversation) AppendWithUsage(message Message, input, output uint) {
	tokens := c.Tokens()
	if input > tokens && len(*c) > 0 {
		(*c)[len(*c)-1].Tokens = input - tokens
	}
	message.Tokens = output
	*c = append(*c, &message)
}

// Tokens returns the total number of tokens in the conversation
func (c Conversation) Tokens() uint {
	total := uint(0)
	for _, msg := range c {
		total += msg.Tokens
	}
	return total
}

// Add accumulates usage from another generation call
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Conversation) String() string {
	return types.Stringify(c)
}
