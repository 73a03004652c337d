package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/room"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hexdelve.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Generation.Params != mapgen.DefaultParams() {
		t.Errorf("generation params = %+v, want defaults", cfg.Generation.Params)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver by default, got %q", cfg.Database.Driver)
	}
	if len(cfg.Preview.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Preview.AllowedOrigins)
	}
	if cfg.Preview.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.Preview.MaxMessageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Generation.Radius != 5 {
		t.Errorf("expected default radius 5, got %d", cfg.Generation.Radius)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
generation:
  radius: 7
  horizontal_y_offset: 2
  room_table: rooms.yaml
database:
  driver: postgres
  postgres:
    host: db.internal
    database: hexdelve
    conn_max_lifetime: 2m
preview:
  listen: ":9000"
  allowed_origins:
    - "https://example.com"
    - "http://localhost:3000"
  max_message_size: 8192
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.Radius != 7 || cfg.Generation.HorizontalYOffset != 2 {
		t.Errorf("generation = %+v", cfg.Generation.Params)
	}
	if cfg.Generation.VerticalOffset != 1 {
		t.Errorf("unset vertical_offset lost its default: %d", cfg.Generation.VerticalOffset)
	}
	if want := filepath.Join(filepath.Dir(path), "rooms.yaml"); cfg.Generation.RoomTable != want {
		t.Errorf("room table = %q, want %q", cfg.Generation.RoomTable, want)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("postgres port lost its default: %d", cfg.Database.Postgres.Port)
	}
	if cfg.Database.Postgres.ConnMaxLifetime.Minutes() != 2 {
		t.Errorf("conn_max_lifetime = %v, want 2m", cfg.Database.Postgres.ConnMaxLifetime)
	}
	if cfg.Preview.Listen != ":9000" {
		t.Errorf("listen = %q", cfg.Preview.Listen)
	}
	if len(cfg.Preview.AllowedOrigins) != 2 || cfg.Preview.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("allowed origins = %v", cfg.Preview.AllowedOrigins)
	}
	if cfg.Preview.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.Preview.MaxMessageSize)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"radius too small", "generation:\n  radius: 2\n"},
		{"unknown driver", "database:\n  driver: mysql\n"},
		{"zero message size", "preview:\n  max_message_size: 0\n"},
		{"malformed yaml", "generation: [radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfig_BadParamsWrapped(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "generation:\n  vertical_offset: 5\n"))
	if !errors.Is(err, mapgen.ErrInvalidParams) {
		t.Errorf("error = %v, want ErrInvalidParams", err)
	}
}

func TestGenerationTable(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "rooms.yaml")
	os.WriteFile(tablePath, []byte("rooms:\n  - type: empty\n    weight: 3\n  - type: pit(1..2)\n    weight: 1\n"), 0644)

	g := GenerationConfig{Params: mapgen.DefaultParams(), RoomTable: tablePath}
	table, err := g.Table()
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if table.TotalWeight() != 4 {
		t.Errorf("total weight = %d, want 4", table.TotalWeight())
	}
	if _, err := g.Generator(); err != nil {
		t.Errorf("Generator failed: %v", err)
	}

	g.RoomTable = ""
	table, err = g.Table()
	if err != nil {
		t.Fatal(err)
	}
	if table.TotalWeight() != room.DefaultTable().TotalWeight() {
		t.Error("empty room_table did not select the built-in table")
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := PreviewConfig{AllowedOrigins: []string{}}

	if !cfg.IsOriginAllowed("http://localhost:8080", "localhost:8080") {
		t.Error("same-origin request should be allowed")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:8080") {
		t.Error("cross-origin request should be rejected")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := PreviewConfig{AllowedOrigins: []string{"*"}}

	for _, origin := range []string{"http://localhost:8080", "http://evil.com", "https://example.com"} {
		if !cfg.IsOriginAllowed(origin, "localhost:8080") {
			t.Errorf("wildcard should allow %s", origin)
		}
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := PreviewConfig{AllowedOrigins: []string{"https://example.com", "http://localhost:3000"}}

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://example.com", true},
		{"http://localhost:3000", true},
		{"http://example.com", false},
		{"https://evil.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := cfg.IsOriginAllowed(tt.origin, "localhost:8080"); got != tt.allowed {
			t.Errorf("IsOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},                       // No origin header
		{"http://localhost:4000", "localhost:4000", true},  // HTTP match
		{"https://localhost:4000", "localhost:4000", true}, // HTTPS match
		{"http://localhost:4000/", "localhost:4000", true}, // Trailing slash
		{"http://example.com", "localhost:4000", false},    // Different host
		{"http://localhost:3000", "localhost:4000", false}, // Different port
		{"ws://localhost:4000", "localhost:4000", true},    // WebSocket scheme
	}

	for _, tt := range tests {
		if got := isSameOrigin(tt.origin, tt.requestHost); got != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v", tt.origin, tt.requestHost, got, tt.expected)
		}
	}
}
