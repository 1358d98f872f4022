package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/game"
)

// Config represents the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Modes  []ModeConfig   `hcl:"mode,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// ModeConfig defines one hostable game mode: its deck composition per
// player-count band and the deal parameters.
type ModeConfig struct {
	ID          string      `hcl:"id,label"`
	Description string      `hcl:"description"`
	MaxPlayers  int         `hcl:"max_players,optional"`
	HandSize    int         `hcl:"hand_size,optional"`
	Cards       []CardCount `hcl:"card,block"`
}

// CardCount is the per-band copy count for one card type.
type CardCount struct {
	Type   string `hcl:"type,label"`
	Small  int    `hcl:"small"`
	Medium int    `hcl:"medium"`
	Large  int    `hcl:"large"`
}

// DefaultConfig returns the configuration used when no file is given: the
// built-in party mode on the default port.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data, filename)
}

// ParseConfig decodes HCL configuration from a byte slice.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	for i := range config.Modes {
		if config.Modes[i].MaxPlayers == 0 {
			config.Modes[i].MaxPlayers = 10
		}
		if config.Modes[i].HandSize == 0 {
			config.Modes[i].HandSize = 6
		}
	}
	return &config, nil
}

// ListenAddr returns the address the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Mode builds the game mode this block describes.
func (mc ModeConfig) Mode() (*game.Mode, error) {
	counts := make(map[card.Type]game.Band, len(mc.Cards))
	for _, cc := range mc.Cards {
		t := card.Type(cc.Type)
		if !t.Valid() {
			return nil, fmt.Errorf("mode %s: unknown card type %q", mc.ID, cc.Type)
		}
		counts[t] = game.Band{Small: cc.Small, Medium: cc.Medium, Large: cc.Large}
	}
	return game.NewMode(mc.ID, mc.Description, mc.MaxPlayers, mc.HandSize, counts)
}

// GameModes builds every configured mode.
func (c *Config) GameModes() ([]*game.Mode, error) {
	modes := make([]*game.Mode, 0, len(c.Modes))
	for _, mc := range c.Modes {
		m, err := mc.Mode()
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}
