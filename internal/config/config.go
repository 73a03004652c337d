// Package config loads the hexdelve configuration file: generation
// parameters, the save-game database and the preview feed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/hexdelve/internal/database"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/room"
)

// Config holds every setting of the hexdelve tools.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Database   database.Config  `yaml:"database"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// GenerationConfig holds map generation settings.
type GenerationConfig struct {
	mapgen.Params `yaml:",inline"`

	// RoomTable is a YAML file of weighted room types. Empty selects the
	// built-in table. Relative paths resolve against the config file.
	RoomTable string `yaml:"room_table"`
}

// PreviewConfig holds settings of the websocket preview feed.
type PreviewConfig struct {
	// Listen is the address the feed binds to.
	Listen string `yaml:"listen"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// MaxPerIP is the maximum concurrent connections from one IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum concurrent connections overall.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{Params: mapgen.DefaultParams()},
		Database:   database.DefaultConfig("data/hexdelve.db"),
		Preview: PreviewConfig{
			Listen:         "127.0.0.1:8080",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
			MaxPerIP:       3,
			MaxTotal:       50,
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if t := config.Generation.RoomTable; t != "" && !filepath.IsAbs(t) {
		config.Generation.RoomTable = filepath.Join(filepath.Dir(path), t)
	}

	return config, config.Validate()
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if err := c.Generation.Params.Validate(); err != nil {
		return err
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Preview.MaxMessageSize <= 0 {
		return fmt.Errorf("config: preview max_message_size must be positive")
	}
	return nil
}

// Table loads the configured room table, or the built-in one.
func (g GenerationConfig) Table() (*room.Table, error) {
	if g.RoomTable == "" {
		return room.DefaultTable(), nil
	}
	return room.LoadTable(g.RoomTable)
}

// Generator builds a map generator from the generation settings.
func (g GenerationConfig) Generator() (*mapgen.Generator, error) {
	table, err := g.Table()
	if err != nil {
		return nil, err
	}
	return mapgen.NewGenerator(g.Params, table)
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *PreviewConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // non-browser client
	}

	// "http://localhost:3000/" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
