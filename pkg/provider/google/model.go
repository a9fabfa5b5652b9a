package google

import (
	"context"
	"net/url"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	stockbot "github.com/mutablelogic/go-stockbot"
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListModels returns all available models, paginating through the API
func (c *Client) ListModels(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
	return c.ModelCache.ListModels(ctx, opts, func(ctx context.Context, _ ...opt.Opt) ([]schema.Model, error) {
		return c.listModels(ctx)
	})
}

// GetModel returns the model with the given name
func (c *Client) GetModel(ctx context.Context, name string) (*schema.Model, error) {
	return c.ModelCache.GetModel(ctx, name, func(ctx context.Context, name string) (*schema.Model, error) {
		var response geminiModel
		if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models", name)); err != nil {
			return nil, stockbot.ErrNotFound.Withf("model %q: %v", name, err)
		}
		model := toModel(&response)
		return &model, nil
	})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) listModels(ctx context.Context) ([]schema.Model, error) {
	var result []schema.Model
	var pageToken string
	for {
		var response geminiListModelsResponse
		opts := []client.RequestOpt{client.OptPath("models")}
		if pageToken != "" {
			opts = append(opts, client.OptQuery(url.Values{"pageToken": []string{pageToken}}))
		}
		if err := c.DoWithContext(ctx, nil, &response, opts...); err != nil {
			return nil, err
		}
		for _, model := range response.Models {
			result = append(result, toModel(model))
		}
		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}
	return result, nil
}

// toModel converts a wire model to the universal representation, stripping
// the "models/" prefix from the name
func toModel(model *geminiModel) schema.Model {
	return schema.Model{
		Name:        strings.TrimPrefix(model.Name, "models/"),
		Description: model.Description,
		OwnedBy:     schema.Gemini,
		Meta: map[string]any{
			"display_name":       model.DisplayName,
			"version":            model.Version,
			"input_token_limit":  model.InputTokenLimit,
			"output_token_limit": model.OutputTokenLimit,
			"supported_actions":  model.SupportedActions,
		},
	}
}
