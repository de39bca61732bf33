package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
	"github.com/lox/holdem-advisor/internal/session"
)

// Config is the advisor server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  *TableSettings `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address    string `hcl:"address,optional"`
	Port       int    `hcl:"port,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	StateFile  string `hcl:"state_file,optional"`
	Aggression string `hcl:"aggression,optional"`
	DwellMS    int    `hcl:"dwell_ms,optional"`
}

// TableSettings mirrors the table the hero is sitting at.
type TableSettings struct {
	NumPlayers int `hcl:"num_players,optional"`
	SmallBlind int `hcl:"small_blind,optional"`
	BigBlind   int `hcl:"big_blind,optional"`
	HeroSeat   int `hcl:"hero_seat,optional"`
	BuyIn      int `hcl:"buy_in,optional"`
}

// DefaultConfig returns the configuration used when no file exists: a
// 6-max 10c/20c table watched from seat 0.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:    "localhost",
			Port:       8093,
			LogLevel:   "info",
			Aggression: "neutral",
			DwellMS:    1000,
		},
		Table: &TableSettings{
			NumPlayers: 6,
			SmallBlind: 10,
			BigBlind:   20,
			HeroSeat:   0,
			BuyIn:      1000,
		},
	}
}

// LoadConfig reads an HCL configuration file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	defaults := DefaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaults.Server.Address
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = defaults.Server.LogLevel
	}
	if cfg.Server.Aggression == "" {
		cfg.Server.Aggression = defaults.Server.Aggression
	}
	if cfg.Server.DwellMS == 0 {
		cfg.Server.DwellMS = defaults.Server.DwellMS
	}
	if cfg.Table == nil {
		cfg.Table = defaults.Table
	}
	if cfg.Table.NumPlayers == 0 {
		cfg.Table.NumPlayers = defaults.Table.NumPlayers
	}
	if cfg.Table.SmallBlind == 0 {
		cfg.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if cfg.Table.BigBlind == 0 {
		cfg.Table.BigBlind = defaults.Table.BigBlind
	}
	if cfg.Table.BuyIn == 0 {
		cfg.Table.BuyIn = defaults.Table.BuyIn
	}
	return &cfg, nil
}

// Validate rejects configurations the engine would refuse anyway, with
// better messages.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.NumPlayers < 2 || c.Table.NumPlayers > 10 {
		return fmt.Errorf("num_players must be 2-10, got %d", c.Table.NumPlayers)
	}
	if c.Table.SmallBlind <= 0 || c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("blinds must satisfy 0 < small_blind < big_blind, got %d/%d",
			c.Table.SmallBlind, c.Table.BigBlind)
	}
	if c.Table.HeroSeat < 0 || c.Table.HeroSeat >= c.Table.NumPlayers {
		return fmt.Errorf("hero_seat %d out of range", c.Table.HeroSeat)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionConfig converts the file configuration into a session config.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Table: game.Config{
			NumPlayers: c.Table.NumPlayers,
			SmallBlind: c.Table.SmallBlind,
			BigBlind:   c.Table.BigBlind,
			MinRaise:   c.Table.BigBlind,
			HeroSeat:   c.Table.HeroSeat,
			BuyIn:      c.Table.BuyIn,
			// Stack tracking across hands needs hole card knowledge for
			// every seat, which the advisor never has.
			ResetStacksEachHand: true,
		},
		Profile:   potodds.ProfileByName(c.Server.Aggression),
		StateFile: c.Server.StateFile,
		Dwell:     time.Duration(c.Server.DwellMS) * time.Millisecond,
	}
}
