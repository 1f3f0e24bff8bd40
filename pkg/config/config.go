// Package config loads movegraph settings.
//
// Settings are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file: the path passed to [Load], or ./movegraph.toml if present
//  3. a .env file in the working directory (never overrides real env vars)
//  4. environment variables (NEO4J_URI, NEO4J_USER, NEO4J_PASS, ...)
//
// Command-line flags are applied by the caller on top of the loaded value.
//
// Example movegraph.toml:
//
//	[neo4j]
//	uri = "bolt://graph.internal:7687"
//	user = "importer"
//	database = "move"
//	connect_timeout = "10s"
//
//	[ledger]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "720h"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/neo4j"
)

// AppName names the config file, cache directory and ledger namespace.
const AppName = "movegraph"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = AppName + ".toml"

// Ledger backends.
const (
	LedgerNone  = "none"
	LedgerFile  = "file"
	LedgerRedis = "redis"
)

// DefaultAddr is the ingest server's listen address.
const DefaultAddr = ":8080"

// DefaultMaxBodyBytes caps the size of a graph document posted to the server.
const DefaultMaxBodyBytes = 64 << 20

// Environment variables read by [Load].
const (
	EnvNeo4jURI      = "NEO4J_URI"
	EnvNeo4jUser     = "NEO4J_USER"
	EnvNeo4jPass     = "NEO4J_PASS"
	EnvNeo4jPassword = "NEO4J_PASSWORD"
	EnvNeo4jDatabase = "NEO4J_DATABASE"
	EnvLedger        = "MOVEGRAPH_LEDGER"
	EnvRedisAddr     = "REDIS_ADDR"
	EnvAddr          = "MOVEGRAPH_ADDR"
	EnvMaxBodyBytes  = "MOVEGRAPH_MAX_BODY_BYTES"
)

// Config is the complete movegraph configuration.
type Config struct {
	Neo4j  Neo4j  `toml:"neo4j"`
	Ledger Ledger `toml:"ledger"`
	Server Server `toml:"server"`

	// Source is the TOML file that was loaded, if any.
	Source string `toml:"-"`
}

// Neo4j holds graph store connection settings.
type Neo4j struct {
	URI                   string   `toml:"uri"`
	User                  string   `toml:"user"`
	Password              string   `toml:"password"`
	Database              string   `toml:"database"`
	MaxConnectionPoolSize int      `toml:"max_connection_pool_size"`
	ConnectTimeout        Duration `toml:"connect_timeout"`
}

// Ledger selects and configures the import ledger.
type Ledger struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// Server configures `movegraph serve`.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Duration is a time.Duration that decodes from strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Neo4j: Neo4j{
			URI:                   neo4j.DefaultURI,
			User:                  neo4j.DefaultUser,
			Password:              neo4j.DefaultPassword,
			MaxConnectionPoolSize: neo4j.DefaultMaxConnectionPoolSize,
			ConnectTimeout:        Duration{neo4j.DefaultConnectTimeout},
		},
		Ledger: Ledger{
			Backend:   LedgerFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.TTLImport},
		},
		Server: Server{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Load builds a Config from defaults, the TOML file at path, .env and the
// environment. An empty path loads ./movegraph.toml when it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		if err := errors.ValidatePath(file); err != nil {
			return nil, err
		}
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", file)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", file)
		}
		cfg.Source = file
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(&c.Neo4j.URI, getenv(EnvNeo4jURI))
	setString(&c.Neo4j.User, getenv(EnvNeo4jUser))
	setString(&c.Neo4j.Password, getenv(EnvNeo4jPassword))
	setString(&c.Neo4j.Password, getenv(EnvNeo4jPass))
	setString(&c.Neo4j.Database, getenv(EnvNeo4jDatabase))
	setString(&c.Ledger.Backend, getenv(EnvLedger))
	setString(&c.Ledger.RedisAddr, getenv(EnvRedisAddr))
	setString(&c.Server.Addr, getenv(EnvAddr))

	if v := getenv(EnvMaxBodyBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvMaxBodyBytes)
		}
		c.Server.MaxBodyBytes = n
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "neo4j.uri is required")
	}
	if c.Neo4j.MaxConnectionPoolSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "neo4j.max_connection_pool_size must not be negative")
	}
	if c.Neo4j.ConnectTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "neo4j.connect_timeout must not be negative")
	}

	switch c.Ledger.Backend {
	case LedgerNone, LedgerFile:
	case LedgerRedis:
		if c.Ledger.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "ledger.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown ledger backend %q (want none, file or redis)", c.Ledger.Backend)
	}
	if c.Ledger.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ledger.ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// StoreConfig converts the Neo4j section into driver settings.
func (n Neo4j) StoreConfig() neo4j.Config {
	return neo4j.Config{
		URI:                   n.URI,
		User:                  n.User,
		Password:              n.Password,
		Database:              n.Database,
		MaxConnectionPoolSize: n.MaxConnectionPoolSize,
		ConnectTimeout:        n.ConnectTimeout.Duration,
	}
}

// Target identifies the database imports are written to. It is part of
// every ledger key.
func (n Neo4j) Target() string {
	return n.URI + "/" + n.Database
}

// LedgerDir returns the file ledger directory: the configured one, or the
// XDG cache directory (~/.cache/movegraph/).
func (c *Config) LedgerDir() (string, error) {
	if c.Ledger.Dir != "" {
		return c.Ledger.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
