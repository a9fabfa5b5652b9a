package modelcache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	stockbot "github.com/mutablelogic/go-stockbot"
	opt "github.com/mutablelogic/go-stockbot/pkg/opt"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type modelts struct {
	ts    time.Time
	model schema.Model
}

// ModelCache caches provider model listings for a fixed TTL, so the bot
// does not hit the models endpoint on every request. Safe for concurrent
// use; the lock is released while fetching.
type ModelCache struct {
	ttl   time.Duration
	mu    sync.Mutex
	model map[string]modelts
}

type GetModelFunc func(context.Context, string) (*schema.Model, error)
type ListModelsFunc func(context.Context, ...opt.Opt) ([]schema.Model, error)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewModelCache(ttl time.Duration, cap int) *ModelCache {
	self := new(ModelCache)
	if ttl > 0 {
		self.ttl = ttl
	}
	self.model = make(map[string]modelts, cap)
	return self
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (mc *ModelCache) GetModel(ctx context.Context, name string, fn GetModelFunc) (*schema.Model, error) {
	// Cached model
	mc.mu.Lock()
	if entry, ok := mc.model[name]; ok {
		if time.Since(entry.ts) < mc.ttl {
			mc.mu.Unlock()
			return types.Ptr(entry.model), nil
		}
		// Expired entry: prune before fetching
		delete(mc.model, name)
	}
	mc.mu.Unlock()

	// Fetch model
	model, err := fn(ctx, name)
	if err != nil {
		// If the model no longer exists, ensure the cache is invalidated
		if errors.Is(err, stockbot.ErrNotFound) {
			mc.mu.Lock()
			delete(mc.model, name)
			mc.mu.Unlock()
		}
		return nil, err
	}
	mc.mu.Lock()
	mc.model[model.Name] = modelts{ts: time.Now(), model: types.Value(model)}
	mc.mu.Unlock()

	// Return model
	return model, nil
}

func (mc *ModelCache) ListModels(ctx context.Context, opts []opt.Opt, fn ListModelsFunc) ([]schema.Model, error) {
	// If we have a TTL and cached entries, return all non-expired models
	mc.mu.Lock()
	if mc.ttl > 0 && len(mc.model) > 0 {
		now := time.Now()
		cached := make([]schema.Model, 0, len(mc.model))
		for name, entry := range mc.model {
			if now.Sub(entry.ts) < mc.ttl {
				cached = append(cached, entry.model)
			} else {
				// Prune expired entries
				delete(mc.model, name)
			}
		}
		if len(cached) > 0 {
			mc.mu.Unlock()
			sort.Slice(cached, func(i, j int) bool { return cached[i].Name < cached[j].Name })
			return cached, nil
		}
	}
	mc.mu.Unlock()

	// Fetch models
	models, err := fn(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Cache models
	now := time.Now()
	mc.mu.Lock()
	for _, model := range models {
		mc.model[model.Name] = modelts{ts: now, model: model}
	}
	mc.mu.Unlock()

	// Sort models by name
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	// Return sorted list of models
	return models, nil
}
