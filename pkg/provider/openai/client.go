/*
openai implements an API client for the OpenAI chat completions REST API,
and any compatible server exposing the same surface.
https://platform.openai.com/docs/api-reference
*/
package openai

import (
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	stockbot "github.com/mutablelogic/go-stockbot"
	modelcache "github.com/mutablelogic/go-stockbot/pkg/modelcache"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
	*modelcache.ModelCache
}

var _ stockbot.Client = (*Client)(nil)
var _ stockbot.Generator = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint    = "https://api.openai.com/v1"
	defaultName = schema.OpenAI
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new OpenAI API client with the given API key. Use
// client.OptEndpoint in opts to target a compatible server instead.
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	opts = append(opts,
		client.OptEndpoint(endPoint),
		client.OptReqToken(client.Token{Scheme: client.Bearer, Value: apiKey}),
	)
	if c, err := client.New(opts...); err != nil {
		return nil, err
	} else {
		return &Client{c, modelcache.NewModelCache(time.Hour, 100)}, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}
