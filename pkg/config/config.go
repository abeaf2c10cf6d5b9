// Package config loads layerdefs settings.
//
// Settings are layered, later sources winning: built-in defaults, an
// optional TOML file (layerdefs.toml unless another path is given),
// LAYERDEFS_* environment variables and command-line flags. Environment
// names map to keys by dropping the prefix, lowercasing and turning
// underscores into dashes, so LAYERDEFS_REDIS_ADDR sets redis-addr.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/layerdefs/pkg/store"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "layerdefs.toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "LAYERDEFS_"

// Config holds all layerdefs settings.
type Config struct {
	Store           string `koanf:"store"`
	Dir             string `koanf:"dir"`
	RedisAddr       string `koanf:"redis-addr"`
	RedisPassword   string `koanf:"redis-password"`
	RedisDB         int    `koanf:"redis-db"`
	MongoURI        string `koanf:"mongo-uri"`
	MongoDatabase   string `koanf:"mongo-database"`
	MongoCollection string `koanf:"mongo-collection"`
	Retries         int    `koanf:"retries"`
	Dedupe          bool   `koanf:"dedupe"`
	Verbose         bool   `koanf:"verbose"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"store":            store.BackendNull,
		"dir":              "layers",
		"redis-addr":       "localhost:6379",
		"redis-password":   "",
		"redis-db":         0,
		"mongo-uri":        "mongodb://localhost:27017",
		"mongo-database":   "layerdefs",
		"mongo-collection": "layers",
		"retries":          3,
		"dedupe":           true,
		"verbose":          false,
	}
}

// Load reads the configuration. path names the TOML file; empty means
// DefaultFile, which may be missing. An explicitly named file must exist.
// f may be nil.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// StoreConfig converts the settings into a [store.Config].
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend: c.Store,
		Dir:     c.Dir,
		Redis: store.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		Mongo: store.MongoOptions{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		},
		Retries: c.Retries,
		Dedupe:  c.Dedupe,
	}
}

type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) { return p, nil }

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
