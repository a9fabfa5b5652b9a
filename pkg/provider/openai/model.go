package openai

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	stockbot "github.com/mutablelogic/go-stockbot"
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListModels returns all available models
func (c *Client) ListModels(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
	return c.ModelCache.ListModels(ctx, opts, func(ctx context.Context, _ ...opt.Opt) ([]schema.Model, error) {
		var response listModelsResponse
		if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models")); err != nil {
			return nil, err
		}
		result := make([]schema.Model, 0, len(response.Data))
		for _, model := range response.Data {
			result = append(result, toModel(model))
		}
		return result, nil
	})
}

// GetModel returns the model with the given name
func (c *Client) GetModel(ctx context.Context, name string) (*schema.Model, error) {
	return c.ModelCache.GetModel(ctx, name, func(ctx context.Context, name string) (*schema.Model, error) {
		var response openaiModel
		if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models", name)); err != nil {
			return nil, stockbot.ErrNotFound.Withf("model %q: %v", name, err)
		}
		model := toModel(&response)
		return &model, nil
	})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// toModel converts a wire model to the universal representation. OwnedBy
// identifies the provider for routing, so the wire value (e.g. "system",
// "openai-internal") is kept in the metadata instead.
func toModel(model *openaiModel) schema.Model {
	return schema.Model{
		Name:    model.Id,
		OwnedBy: defaultName,
		Meta: map[string]any{
			"created":  model.Created,
			"owned_by": model.OwnedBy,
		},
	}
}
