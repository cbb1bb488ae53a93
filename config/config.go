// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
)

// Config carries every tunable of the service. Built-in character API keys
// are read from the environment by the character registry directly.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR,default=:8787"`
	BadgerPath string `env:"BADGER_PATH,default=data/parlor"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
	LogFormat  string `env:"LOG_FORMAT,default=json"`

	// HistoryWindow is the trailing transcript window per invocation.
	HistoryWindow int `env:"HISTORY_WINDOW,default=10"`
	// ReplyBudget is the rough character ceiling stated in the identity
	// prompt block.
	ReplyBudget int `env:"REPLY_BUDGET,default=50"`
	// TurnPacing is the presentational pause between participants within a
	// turn. Zero disables it.
	TurnPacing time.Duration `env:"TURN_PACING,default=800ms"`
	// StreamTimeout bounds one participant's completion call.
	StreamTimeout time.Duration `env:"STREAM_TIMEOUT,default=90s"`
}

// Load reads Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
