// Package config resolves console settings from defaults, a YAML file, the
// environment (optionally seeded from .env) and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DirName         = ".devconsole"
	DefaultEndpoint = "http://localhost:8080"
	DefaultTimeout  = 30 * time.Second

	envPrefix = "DEVCONSOLE_"
)

type Config struct {
	// Endpoints are the choices offered by the login screen.
	Endpoints []string `yaml:"endpoints"`
	// Endpoint is the preselected choice when nothing was saved.
	Endpoint  string        `yaml:"endpoint"`
	StorePath string        `yaml:"store"`
	Timeout   time.Duration `yaml:"timeout"`
	Debug     bool          `yaml:"debug"`
	LogPath   string        `yaml:"log"`
}

func Default() Config {
	dir := defaultDir()
	return Config{
		Endpoints: []string{DefaultEndpoint},
		StorePath: filepath.Join(dir, "credentials.yaml"),
		Timeout:   DefaultTimeout,
		LogPath:   filepath.Join(os.TempDir(), "devconsole.log"),
	}
}

// DefaultPath is where Load looks for the config file.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// Load reads the YAML file at path (a missing file is fine), then applies
// DEVCONSOLE_* variables. A .env file in the working directory is loaded
// first without overriding variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(envPrefix + "ENDPOINTS")); v != "" {
		c.Endpoints = splitList(v)
	}
	if v := strings.TrimSpace(getenv(envPrefix + "ENDPOINT")); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(getenv(envPrefix + "STORE")); v != "" {
		c.StorePath = v
	}
	if v := strings.TrimSpace(getenv(envPrefix + "LOG")); v != "" {
		c.LogPath = v
	}
	if v := strings.TrimSpace(getenv(envPrefix + "TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(getenv(envPrefix + "DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", envPrefix, err)
		}
		c.Debug = b
	}
	return nil
}

// normalize trims endpoints, drops duplicates and makes sure the preselected
// endpoint is one of the choices.
func (c *Config) normalize() {
	seen := map[string]bool{}
	var eps []string
	for _, e := range c.Endpoints {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		eps = append(eps, e)
	}
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" && len(eps) > 0 {
		c.Endpoint = eps[0]
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if !seen[c.Endpoint] {
		eps = append(eps, c.Endpoint)
	}
	c.Endpoints = eps
	if c.Timeout < 0 {
		c.Timeout = 0
	}
}

// WithEndpoint returns the endpoint list with e appended when it is not
// already offered, e.g. a custom endpoint saved by an earlier session.
func (c Config) WithEndpoint(e string) []string {
	out := append([]string(nil), c.Endpoints...)
	if e == "" {
		return out
	}
	for _, x := range out {
		if x == e {
			return out
		}
	}
	return append(out, e)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
