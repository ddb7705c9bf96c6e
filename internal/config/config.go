// Package config loads compile settings from TOML files
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/naoina/toml"

	"github.com/leekwars/leekc/internal/diagnostic"
	"github.com/leekwars/leekc/internal/version"
)

// Config holds the settings of a compile session and its driver
type Config struct {
	// Version is the language version, 1 to version.Latest
	Version int
	// TimeoutMs is the wall-clock budget of one compile
	TimeoutMs int
	// MaxErrors caps collected diagnostics
	MaxErrors int
	// CacheSize bounds the lexed unit cache
	CacheSize int
	// IncludeRoot is where includes not found beside their unit are looked up
	IncludeRoot string
	// Strict makes warnings fail the check command
	Strict bool
}

// Defaults is the configuration used when no file is given
var Defaults = Config{
	Version:     version.Latest,
	TimeoutMs:   5000,
	MaxErrors:   diagnostic.DefaultMaxErrors,
	CacheSize:   256,
	IncludeRoot: ".",
}

// Keys are the Go field names, and unknown keys are rejected.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Timeout returns the compile budget as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if _, err := version.New(c.Version); err != nil {
		return err
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("negative TimeoutMs %d", c.TimeoutMs)
	}
	if c.MaxErrors < 1 {
		return fmt.Errorf("MaxErrors must be positive, got %d", c.MaxErrors)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("CacheSize must be positive, got %d", c.CacheSize)
	}
	return nil
}

// Decode reads TOML from r over cfg. Keys absent from r keep their value.
func Decode(r io.Reader, cfg *Config) error {
	if err := tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Load returns Defaults overlaid with the file at path. An empty path
// returns Defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults
	if path == "" {
		return &cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	err = Decode(f, &cfg)
	// Add file name to errors that have a line number.
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(path + ", " + err.Error())
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Dump writes cfg as TOML
func Dump(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
