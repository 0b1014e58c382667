package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PALETTE_MCP_"

// LoadDotEnv loads .env from the working directory if it exists. Existing
// environment variables win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides fields from PALETTE_MCP_* variables. getenv is usually
// os.Getenv; tests pass a map lookup.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v := strings.TrimSpace(getenv(EnvPrefix + name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", EnvPrefix, name, v)
		}
		*dst = n
		return nil
	}

	str("NAMESPACE", &c.Namespace)
	str("LOG_LEVEL", &c.LogLevel)
	str("STORE", &c.Store.Driver)
	str("STORE_PATH", &c.Store.Path)
	str("DSN", &c.Store.DSN)
	str("FETCH_TIMEOUT", &c.Fetch.Timeout)

	if err := num("MAX_SAVED", &c.MaxSaved); err != nil {
		return err
	}
	if err := num("EXTRACT_COUNT", &c.Extract.Count); err != nil {
		return err
	}
	if err := num("EXTRACT_STEP", &c.Extract.Step); err != nil {
		return err
	}
	return num("MAX_DIMENSION", &c.Extract.MaxDimension)
}

// ParseLevel converts a level name to an hclog level.
func ParseLevel(s string) (hclog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return hclog.Info, nil
	}
	level := hclog.LevelFromString(s)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error, off)", s)
	}
	return level, nil
}

// NewLogger builds the root logger writing to w. Stdout carries the MCP
// protocol, so callers pass stderr.
func (c Config) NewLogger(w io.Writer) hclog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "palette-mcp",
		Output: w,
		Level:  level,
	})
}
