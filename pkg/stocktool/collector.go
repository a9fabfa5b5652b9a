package stocktool

import (
	"context"
	"sync"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Collector accumulates charts rendered during a tool-calling turn, keyed
// by conversation so concurrent conversations never see each other's
// charts. The front end drains its own conversation once the model
// produces the final answer.
type Collector struct {
	mu     sync.Mutex
	charts map[string][][]byte
}

// ctxKey tags a context with the conversation the tools run for
type ctxKey struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithConversation returns a context carrying the conversation identifier,
// which the chart tool uses to route rendered charts.
func WithConversation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Add appends a rendered chart for a conversation
func (c *Collector) Add(id string, png []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.charts == nil {
		c.charts = make(map[string][][]byte)
	}
	c.charts[id] = append(c.charts[id], png)
}

// Drain returns the accumulated charts for a conversation and resets it
func (c *Collector) Drain(id string) [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	charts := c.charts[id]
	delete(c.charts, id)
	return charts
}

// ConversationID returns the conversation set by WithConversation, or ""
func ConversationID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
