package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/cheese-chess/internal/engine"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	AllowedRooms []string

	EgressMode   string // http, ws or auto
	EgressDryRun bool

	Simulation  engine.Simulation
	GameTTLSec  int
	RenderImage bool
	MessagesDir string

	// ChallengeTTLSec bounds how long an open challenge waits for an opponent.
	ChallengeTTLSec int
}

// GameTTL is the Redis expiry applied to live games.
func (c *AppConfig) GameTTL() time.Duration {
	return time.Duration(c.GameTTLSec) * time.Second
}

func (c *AppConfig) ChallengeTTL() time.Duration {
	return time.Duration(c.ChallengeTTLSec) * time.Second
}

// RoomAllowed reports whether commands from room are handled. An empty
// allow-list admits every room.
func (c *AppConfig) RoomAllowed(room string) bool {
	if len(c.AllowedRooms) == 0 {
		return true
	}
	for _, r := range c.AllowedRooms {
		if r == room {
			return true
		}
	}
	return false
}

// Load reads the chat bot configuration.
func Load() (*AppConfig, error) {
	cfg, err := LoadLocal()
	if err != nil {
		return nil, err
	}

	cfg.IrisBaseURL = env("IRIS_BASE_URL")
	cfg.IrisWSURL = env("IRIS_WS_URL")
	if v := env("BOT_PREFIX"); v != "" {
		cfg.BotPrefix = v
	}

	cfg.XUserID = env("X_USER_ID")
	cfg.XUserEmail = env("X_USER_EMAIL")
	cfg.XSessionID = env("X_SESSION_ID")

	cfg.RedisURL = env("REDIS_URL")
	cfg.DatabaseURL = env("DATABASE_URL")
	cfg.AllowedRooms = splitList(env("ALLOWED_ROOMS"))

	if v := strings.ToLower(env("EGRESS_MODE")); v != "" {
		switch v {
		case "http", "ws", "auto":
			cfg.EgressMode = v
		default:
			return nil, fmt.Errorf("EGRESS_MODE must be http, ws or auto: %q", v)
		}
	}
	if v := env("EGRESS_DRYRUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EgressDryRun = b
		}
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	return cfg, nil
}

// LoadLocal reads the settings shared with the terminal client. Nothing is
// required.
func LoadLocal() (*AppConfig, error) {
	cfg := &AppConfig{
		BotPrefix:       "!",
		EgressMode:      "http",
		Simulation:      engine.SimulateClone,
		GameTTLSec:      86400,
		ChallengeTTLSec: 600,
		RenderImage:     true,
	}

	if v := env("CHESS_SIMULATION"); v != "" {
		sim, err := engine.ParseSimulation(v)
		if err != nil {
			return nil, fmt.Errorf("CHESS_SIMULATION: %w", err)
		}
		cfg.Simulation = sim
	}
	if v := env("CHESS_GAME_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GameTTLSec = n
		}
	}
	if v := env("CHESS_CHALLENGE_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChallengeTTLSec = n
		}
	}
	if v := env("CHESS_RENDER_IMAGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RenderImage = b
		}
	}
	cfg.MessagesDir = env("CHESS_MESSAGES_DIR")
	return cfg, nil
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
