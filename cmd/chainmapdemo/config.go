package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/llxisdsh/chainmap/hashfunc"
)

const envPrefix = "CHAINMAP_"

var lockNames = []string{"none", "mutex", "rw", "spin"}

// Config drives both the walkthrough and the load run.
type Config struct {
	// Slots is the bucket count of the walkthrough table.
	Slots int `koanf:"slots"`
	// LoadSlots is the bucket count of the load table, 0 means the default prime.
	LoadSlots     int    `koanf:"load_slots"`
	Lock          string `koanf:"lock"`
	Hash          string `koanf:"hash"`
	Workers       int    `koanf:"workers"`
	KeysPerWorker int    `koanf:"keys_per_worker"`
	LogLevel      string `koanf:"log_level"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"slots":           7,
		"load_slots":      0,
		"lock":            "rw",
		"hash":            "xxhash",
		"workers":         4,
		"keys_per_worker": 10000,
		"log_level":       "info",
	}
}

// LoadConfig layers defaults, an optional YAML file and CHAINMAP_*
// environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the demo cannot run with.
func (c *Config) Validate() error {
	if c.Slots <= 0 {
		return fmt.Errorf("slots must be positive, got %d", c.Slots)
	}
	if c.LoadSlots < 0 {
		return fmt.Errorf("load_slots must not be negative, got %d", c.LoadSlots)
	}
	if !slices.Contains(lockNames, c.Lock) {
		return fmt.Errorf("unknown lock %q, want one of %v", c.Lock, lockNames)
	}
	if c.Hash != "xxhash" {
		if _, ok := hashfunc.ByName(c.Hash); !ok {
			return fmt.Errorf("unknown hash %q, want xxhash or one of %v", c.Hash, hashfunc.Names())
		}
	}
	if c.Workers <= 0 || c.KeysPerWorker <= 0 {
		return fmt.Errorf("workers and keys_per_worker must be positive, got %d and %d",
			c.Workers, c.KeysPerWorker)
	}
	return nil
}
