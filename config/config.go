// Package config loads the settings of a memory from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Write policies.
const (
	WriteThrough = "through"
	WriteBack    = "back"
)

// Config contains all memory settings.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after Open.
type Config struct {
	// Persistence controls whether and where state survives restarts.
	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`

	// Frame contains frame cache settings.
	Frame FrameConfig `json:"frame" yaml:"frame"`

	// Debug contains diagnostics for widget authors.
	Debug DebugConfig `json:"debug" yaml:"debug"`

	// Metrics selects the metric exporters.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// PersistenceConfig contains persistence settings.
type PersistenceConfig struct {
	Enabled          bool          `json:"enabled" yaml:"enabled"`
	Backend          string        `json:"backend" yaml:"backend"`
	Key              string        `json:"key" yaml:"key"`
	Codec            string        `json:"codec" yaml:"codec"`
	AutosaveInterval time.Duration `json:"autosave_interval" yaml:"autosave_interval"`
	WritePolicy      string        `json:"write_policy" yaml:"write_policy"`
	WriteBackBuffer  int           `json:"write_back_buffer" yaml:"write_back_buffer"`
	Badger           BadgerConfig  `json:"badger" yaml:"badger"`
	Redis            RedisConfig   `json:"redis" yaml:"redis"`
}

// BadgerConfig contains settings of the badger backend.
type BadgerConfig struct {
	Path       string `json:"path" yaml:"path"`
	InMemory   bool   `json:"in_memory" yaml:"in_memory"`
	SyncWrites bool   `json:"sync_writes" yaml:"sync_writes"`
}

// RedisConfig contains settings of the redis backend.
type RedisConfig struct {
	URL            string        `json:"url" yaml:"url"`
	Prefix         string        `json:"prefix" yaml:"prefix"`
	TTL            time.Duration `json:"ttl" yaml:"ttl"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// FrameConfig contains frame cache settings.
type FrameConfig struct {
	// KeepFrames keeps unused cache entries for this many extra frames. 0 drops them after one frame.
	KeepFrames uint32 `json:"keep_frames" yaml:"keep_frames"`
}

// DebugConfig contains diagnostics settings.
type DebugConfig struct {
	WarnOnIDClash   bool `json:"warn_on_id_clash" yaml:"warn_on_id_clash"`
	ReentrancyCheck bool `json:"reentrancy_check" yaml:"reentrancy_check"`
}

// MetricsConfig selects metric exporters.
type MetricsConfig struct {
	OTel       bool   `json:"otel" yaml:"otel"`
	Prometheus bool   `json:"prometheus" yaml:"prometheus"`
	MeterName  string `json:"meter_name" yaml:"meter_name"`
}

// Default returns the default configuration: persistence off, clash warnings on.
func Default() Config {
	return Config{
		Persistence: PersistenceConfig{
			Enabled:          false,
			Backend:          BackendMemory,
			Key:              "ui-memory",
			Codec:            "json",
			AutosaveInterval: 30 * time.Second,
			WritePolicy:      WriteBack,
			WriteBackBuffer:  4,
			Redis: RedisConfig{
				Prefix:         "uimemory:",
				ConnectTimeout: 5 * time.Second,
			},
		},
		Debug: DebugConfig{
			WarnOnIDClash: true,
		},
		Metrics: MetricsConfig{
			MeterName: "github.com/krisalay/ui-memory",
		},
	}
}

// Load reads the YAML file at path on top of Default and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of Default and validates the result. Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if len(b) > 0 {
		if err := unmarshalStrict(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	p := c.Persistence
	if !p.Enabled {
		return nil
	}
	if p.Key == "" {
		return fmt.Errorf("%w: persistence.key must not be empty", ErrInvalid)
	}
	switch p.Codec {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: persistence.codec %q (want json or yaml)", ErrInvalid, p.Codec)
	}
	if err := p.ValidateWrites(); err != nil {
		return err
	}
	switch p.Backend {
	case BackendMemory:
	case BackendBadger:
		if !p.Badger.InMemory && p.Badger.Path == "" {
			return fmt.Errorf("%w: persistence.badger.path is required", ErrInvalid)
		}
	case BackendRedis:
		if p.Redis.URL == "" {
			return fmt.Errorf("%w: persistence.redis.url is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: persistence.backend %q", ErrInvalid, p.Backend)
	}
	return nil
}

// ValidateWrites checks the settings that decide how snapshots reach a store.
// Validate calls it when persistence is enabled; Open also calls it for an injected store.
func (p PersistenceConfig) ValidateWrites() error {
	if p.AutosaveInterval < 0 {
		return fmt.Errorf("%w: persistence.autosave_interval must be non-negative", ErrInvalid)
	}
	switch p.WritePolicy {
	case WriteThrough:
	case WriteBack:
		if p.WriteBackBuffer <= 0 {
			return fmt.Errorf("%w: persistence.write_back_buffer must be positive", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: persistence.write_policy %q (want through or back)", ErrInvalid, p.WritePolicy)
	}
	return nil
}

func unmarshalStrict(b []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
