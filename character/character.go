// Package character resolves AI participant identifiers to their invocation
// configuration. Two resolution classes exist: built-in characters shipped
// with the binary (credentials come from process environment) and custom
// characters persisted per-identifier in a store.
package character

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an identifier resolves to neither a
	// built-in nor a stored custom character.
	ErrNotFound = errors.New("character not found")
	// ErrMissingCredential is returned when a character is known but its
	// API key is absent.
	ErrMissingCredential = errors.New("character credential not configured")
)

// Config is the fully resolved invocation configuration for one participant.
type Config struct {
	ID         string
	Name       string
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	BasePrompt string
	Avatar     string
	IsCustom   bool
}

// Custom is a user-supplied character as persisted in the store. The API key
// is stored alongside the endpoint because each custom character may point
// at a different provider.
type Custom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	BaseURL   string    `json:"base_url"`
	APIKey    string    `json:"api_key"`
	Prompt    string    `json:"prompt"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists custom characters keyed by exact identifier.
type Store interface {
	Put(ctx context.Context, c Custom) error
	Get(ctx context.Context, id string) (Custom, error)
	List(ctx context.Context) ([]Custom, error)
	Delete(ctx context.Context, id string) error
}
