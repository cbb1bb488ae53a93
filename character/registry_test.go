package character

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBuiltins = []Builtin{
	{ID: "ai1", Name: "Echo", Provider: "openai", Model: "gpt-4o-mini", KeyEnv: "TEST_OPENAI_KEY", Prompt: "Echo prompt"},
	{ID: "ai2", Name: "Sage", Provider: "anthropic", Model: "claude-3-5-haiku-20241022", KeyEnv: "TEST_ANTHROPIC_KEY", Prompt: "Sage prompt"},
}

func newTestRegistry(store Store, env map[string]string) *Registry {
	return NewRegistry(store, func(o *Options) {
		o.Builtins = testBuiltins
		o.Getenv = func(key string) string { return env[key] }
	})
}

func TestResolve_Builtin(t *testing.T) {
	reg := newTestRegistry(NewInMemoryStore(), map[string]string{"TEST_OPENAI_KEY": "sk-test"})

	cfg, err := reg.Resolve(context.Background(), "ai1")

	require.NoError(t, err)
	assert.Equal(t, "Echo", cfg.Name)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "Echo prompt", cfg.BasePrompt)
	assert.False(t, cfg.IsCustom)
}

func TestResolve_BuiltinMissingCredential(t *testing.T) {
	reg := newTestRegistry(NewInMemoryStore(), nil)

	_, err := reg.Resolve(context.Background(), "ai1")

	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestResolve_CustomByReservedPrefix(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Put(context.Background(), Custom{
		ID:      "custom_42",
		Name:    "Helper",
		Model:   "qwen-plus",
		BaseURL: "https://example.com/v1",
		APIKey:  "sk-custom",
		Prompt:  "Helper prompt",
	}))
	reg := newTestRegistry(store, nil)

	cfg, err := reg.Resolve(context.Background(), "custom_42")

	require.NoError(t, err)
	assert.Equal(t, "Helper", cfg.Name)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "https://example.com/v1", cfg.BaseURL)
	assert.True(t, cfg.IsCustom)
}

func TestResolve_NonBuiltinPatternRoutesToStore(t *testing.T) {
	// Identifiers without the reserved prefix that also fail the built-in
	// naming pattern take the custom branch.
	store := NewInMemoryStore()
	require.NoError(t, store.Put(context.Background(), Custom{
		ID: "legacy-bot", Name: "Legacy", Model: "gpt-4o-mini", APIKey: "sk-legacy",
	}))
	reg := newTestRegistry(store, nil)

	cfg, err := reg.Resolve(context.Background(), "legacy-bot")

	require.NoError(t, err)
	assert.Equal(t, "Legacy", cfg.Name)
}

func TestResolve_BuiltinLookingButUnknownFails(t *testing.T) {
	// "ai99" matches the built-in pattern but is in no catalog: it must
	// fail explicitly rather than default to anything.
	reg := newTestRegistry(NewInMemoryStore(), map[string]string{"TEST_OPENAI_KEY": "sk-test"})

	_, err := reg.Resolve(context.Background(), "ai99")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_UnknownCustomFails(t *testing.T) {
	reg := newTestRegistry(NewInMemoryStore(), nil)

	_, err := reg.Resolve(context.Background(), "custom_missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_CustomMissingCredential(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Put(context.Background(), Custom{ID: "custom_1", Name: "NoKey", Model: "m"}))
	reg := newTestRegistry(store, nil)

	_, err := reg.Resolve(context.Background(), "custom_1")

	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestListAll_MergesBuiltinsFirst(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Put(context.Background(), Custom{ID: "custom_1", Name: "Helper", Model: "m", APIKey: "k"}))
	reg := newTestRegistry(store, nil)

	list, err := reg.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ai1", list[0].ID)
	assert.False(t, list[0].IsCustom)
	assert.Equal(t, "ai2", list[1].ID)
	assert.Equal(t, "custom_1", list[2].ID)
	assert.True(t, list[2].IsCustom)
}
