package config

import (
	"testing"
	"time"

	"github.com/park285/cheese-chess/internal/engine"
)

func setBotEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", " http://iris:3000 ")
	t.Setenv("IRIS_WS_URL", "ws://iris:3000/ws")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setBotEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IrisBaseURL != "http://iris:3000" {
		t.Fatalf("IrisBaseURL not trimmed: %q", cfg.IrisBaseURL)
	}
	if cfg.BotPrefix != "!" || cfg.EgressMode != "http" || cfg.EgressDryRun {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Simulation != engine.SimulateClone || cfg.GameTTL() != 24*time.Hour || !cfg.RenderImage {
		t.Fatalf("chess defaults = %+v", cfg)
	}
	if !cfg.RoomAllowed("anything") {
		t.Fatalf("empty allow-list must admit all rooms")
	}
}

func TestLoadOverrides(t *testing.T) {
	setBotEnv(t)
	t.Setenv("BOT_PREFIX", "/")
	t.Setenv("ALLOWED_ROOMS", "r1, ,r2")
	t.Setenv("EGRESS_MODE", "AUTO")
	t.Setenv("EGRESS_DRYRUN", "true")
	t.Setenv("CHESS_SIMULATION", "inplace")
	t.Setenv("CHESS_GAME_TTL", "600")
	t.Setenv("CHESS_RENDER_IMAGE", "false")
	t.Setenv("CHESS_MESSAGES_DIR", "/etc/chess/messages")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotPrefix != "/" || cfg.EgressMode != "auto" || !cfg.EgressDryRun {
		t.Fatalf("bot overrides = %+v", cfg)
	}
	if len(cfg.AllowedRooms) != 2 || !cfg.RoomAllowed("r2") || cfg.RoomAllowed("r3") {
		t.Fatalf("rooms = %v", cfg.AllowedRooms)
	}
	if cfg.Simulation != engine.SimulateInPlace || cfg.GameTTL() != 10*time.Minute || cfg.RenderImage || cfg.MessagesDir != "/etc/chess/messages" {
		t.Fatalf("chess overrides = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing base url", map[string]string{"IRIS_BASE_URL": ""}},
		{"missing ws url", map[string]string{"IRIS_WS_URL": ""}},
		{"missing redis", map[string]string{"REDIS_URL": ""}},
		{"bad egress", map[string]string{"EGRESS_MODE": "smtp"}},
		{"bad simulation", map[string]string{"CHESS_SIMULATION": "quantum"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBotEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadLocalNeedsNothing(t *testing.T) {
	t.Setenv("IRIS_BASE_URL", "")
	t.Setenv("CHESS_GAME_TTL", "-5")
	cfg, err := LoadLocal()
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.GameTTLSec != 86400 {
		t.Fatalf("negative ttl accepted: %d", cfg.GameTTLSec)
	}
	if cfg.ChallengeTTL() != 10*time.Minute {
		t.Fatalf("challenge ttl = %v", cfg.ChallengeTTL())
	}
}
