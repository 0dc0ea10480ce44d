package config

import (
	"fmt"
	"time"

	"github.com/Sopno181818/chor-game/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port int
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration.
type GameConfig struct {
	MaxRounds     int
	RoundCooldown time.Duration
	Policy        string // "classic" or "extended"
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
			Env:  "development",
		},
		Game: GameConfig{
			MaxRounds:     10,
			RoundCooldown: 4 * time.Second,
			Policy:        "classic",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for values the server cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.MaxRounds < 1 {
		return fmt.Errorf("invalid max rounds (must be at least 1): %d", c.Game.MaxRounds)
	}
	if c.Game.RoundCooldown < 0 {
		return fmt.Errorf("invalid round cooldown: %s", c.Game.RoundCooldown)
	}
	if _, err := domain.PolicyByName(c.Game.Policy); err != nil {
		return fmt.Errorf("invalid scoring policy %q: %w", c.Game.Policy, err)
	}
	return nil
}

// ScoringPolicy resolves the configured policy table.
func (c *Config) ScoringPolicy() domain.Policy {
	policy, err := domain.PolicyByName(c.Game.Policy)
	if err != nil {
		return domain.ClassicPolicy()
	}
	return policy
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the server address in host:port format.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
