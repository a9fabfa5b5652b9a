/*
agent aggregates LLM provider clients, resolves models across them, and runs
the tool-calling loop that lets a model query the stock database.
*/
package agent

import (
	"context"
	"sort"
	"strings"
	"sync"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	stockbot "github.com/mutablelogic/go-stockbot"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Manager struct {
	clients map[string]stockbot.Client
	toolkit *tool.Toolkit
}

// Opt is a functional option for configuring a manager
type Opt func(*Manager) error

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewManager(opts ...Opt) (*Manager, error) {
	m := new(Manager)
	m.clients = make(map[string]stockbot.Client)

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	// Default to empty toolkit if none was provided
	if m.toolkit == nil {
		m.toolkit, _ = tool.NewToolkit()
	}

	// Return success
	return m, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithClient adds an LLM provider client to the manager
func WithClient(client stockbot.Client) Opt {
	return func(m *Manager) error {
		if name := client.Name(); !types.IsIdentifier(name) {
			return stockbot.ErrBadParameter.Withf("invalid client name %q", name)
		} else if _, exists := m.clients[name]; exists {
			return stockbot.ErrBadParameter.Withf("duplicate client %q", name)
		} else {
			m.clients[name] = client
		}

		// Return success
		return nil
	}
}

// WithToolkit sets the toolkit for the manager
func WithToolkit(toolkit *tool.Toolkit) Opt {
	return func(m *Manager) error {
		if toolkit == nil {
			return stockbot.ErrBadParameter.With("toolkit is required")
		}
		m.toolkit = toolkit
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Providers returns the names of all registered provider clients, sorted
func (m *Manager) Providers() []string {
	providers := make([]string, 0, len(m.clients))
	for name := range m.clients {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

// ListModels collects models from all clients in parallel. When provider is
// not empty, only that provider is queried.
func (m *Manager) ListModels(ctx context.Context, provider string) ([]schema.Model, error) {
	var mu sync.Mutex
	var all []schema.Model

	wg, ctx := errgroup.WithContext(ctx)
	var matched bool
	for _, client := range m.clients {
		if provider != "" && client.Name() != provider {
			continue
		}
		matched = true

		wg.Go(func() error {
			models, err := client.ListModels(ctx)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			all = append(all, models...)
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	if provider != "" && !matched {
		return nil, stockbot.ErrNotFound.Withf("provider %q not found", provider)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *Manager) clientForModel(model *schema.Model) stockbot.Client {
	if model == nil {
		return nil
	}
	return m.clients[model.OwnedBy]
}

func (m *Manager) getModel(ctx context.Context, provider, model string) (*schema.Model, error) {
	if provider := strings.TrimSpace(provider); provider == "" {
		// Search all clients for the model in parallel
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var mu sync.Mutex
		var result *schema.Model

		g, ctx := errgroup.WithContext(ctx)
		for _, client := range m.clients {
			g.Go(func() error {
				models, err := client.ListModels(ctx)
				if err != nil {
					return nil // Swallow per-provider errors
				}

				mu.Lock()
				defer mu.Unlock()
				if result != nil {
					return nil // Already found
				}
				for _, m := range models {
					if m.Name == model {
						result = &m
						cancel()
						return nil
					}
				}
				return nil
			})
		}
		g.Wait()

		if result != nil {
			return result, nil
		}
		return nil, stockbot.ErrNotFound.Withf("model %q not found in any provider", model)
	} else if client, ok := m.clients[provider]; !ok {
		return nil, stockbot.ErrNotFound.Withf("no client found for provider %q", provider)
	} else {
		return client.GetModel(ctx, model)
	}
}
