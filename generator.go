/*
Package stockbot defines the interfaces shared by the LLM provider
clients and the packages that compose them into the Telegram bot.
*/
package stockbot

import (
	"context"

	// Packages
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is the interface that wraps basic LLM provider methods
type Client interface {
	// Return the provider name
	Name() string

	// ListModels returns the list of available models
	ListModels(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error)

	// GetModel returns the model with the given name
	GetModel(ctx context.Context, name string) (*schema.Model, error)
}

// Generator is an interface for conducting conversations with a model
type Generator interface {
	// WithoutSession sends a single message and returns the response (stateless)
	WithoutSession(ctx context.Context, model schema.Model, message *schema.Message, opts ...opt.Opt) (*schema.Message, *schema.Usage, error)

	// WithSession sends a message within a conversation and returns the response (stateful)
	WithSession(ctx context.Context, model schema.Model, session *schema.Conversation, message *schema.Message, opts ...opt.Opt) (*schema.Message, *schema.Usage, error)
}
