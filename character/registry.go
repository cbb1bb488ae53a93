package character

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/parlorhq/parlor/core"
)

// reservedPrefix marks identifiers that are always custom, regardless of
// whatever else they look like.
const reservedPrefix = "custom_"

// Registry resolves participant identifiers to invocation configurations.
// Lookups are pure and safe for concurrent use.
type Registry struct {
	builtins []Builtin
	store    Store
	getenv   func(string) string
}

// Options configure a Registry.
type Options struct {
	// Builtins overrides the static catalog (tests).
	Builtins []Builtin
	// Getenv sources built-in credentials; defaults to os.Getenv.
	Getenv func(string) string
}

// NewRegistry creates a registry over the built-in catalog and the given
// custom character store.
func NewRegistry(store Store, optFns ...func(o *Options)) *Registry {
	opts := Options{Builtins: Builtins, Getenv: os.Getenv}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{builtins: opts.Builtins, store: store, getenv: opts.Getenv}
}

// isBuiltinID reports whether an identifier matches the built-in naming
// pattern ("ai" prefix). Everything that fails it routes to the custom
// branch, so pre-existing custom identifiers without the reserved prefix
// still resolve.
func isBuiltinID(id string) bool { return strings.HasPrefix(id, "ai") }

// Resolve maps an identifier to its invocation configuration.
//
// An identifier is treated as custom if it carries the reserved prefix OR
// does not match the built-in naming pattern; both conditions route to the
// store. Identifiers that look built-in but are absent from the catalog fail
// with ErrNotFound instead of silently defaulting.
func (r *Registry) Resolve(ctx context.Context, id string) (Config, error) {
	if strings.HasPrefix(id, reservedPrefix) || !isBuiltinID(id) {
		return r.resolveCustom(ctx, id)
	}
	for _, b := range r.builtins {
		if b.ID != id {
			continue
		}
		key := r.getenv(b.KeyEnv)
		if key == "" {
			return Config{}, fmt.Errorf("%w: %s (env %s)", ErrMissingCredential, id, b.KeyEnv)
		}
		return Config{
			ID:         b.ID,
			Name:       b.Name,
			Provider:   b.Provider,
			Model:      b.Model,
			BaseURL:    b.BaseURL,
			APIKey:     key,
			BasePrompt: b.Prompt,
			Avatar:     b.Avatar,
		}, nil
	}
	return Config{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *Registry) resolveCustom(ctx context.Context, id string) (Config, error) {
	c, err := r.store.Get(ctx, id)
	if err != nil {
		return Config{}, fmt.Errorf("resolve custom character %s: %w", id, err)
	}
	if c.APIKey == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingCredential, id)
	}
	return Config{
		ID:         c.ID,
		Name:       c.Name,
		Provider:   "openai",
		Model:      c.Model,
		BaseURL:    c.BaseURL,
		APIKey:     c.APIKey,
		BasePrompt: c.Prompt,
		Avatar:     c.Avatar,
		IsCustom:   true,
	}, nil
}

// ListAll merges the built-in catalog with persisted custom characters,
// built-ins first. Credentials are never included in the listing.
func (r *Registry) ListAll(ctx context.Context) ([]core.Participant, error) {
	out := lo.Map(r.builtins, func(b Builtin, _ int) core.Participant {
		return core.Participant{
			ID:         b.ID,
			Name:       b.Name,
			Model:      b.Model,
			Avatar:     b.Avatar,
			BasePrompt: b.Prompt,
		}
	})
	custom, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom characters: %w", err)
	}
	for _, c := range custom {
		out = append(out, core.Participant{
			ID:         c.ID,
			Name:       c.Name,
			Model:      c.Model,
			Avatar:     c.Avatar,
			BasePrompt: c.Prompt,
			IsCustom:   true,
		})
	}
	return out, nil
}
