package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the CLI configuration, loaded from
// ~/.config/waypost/config.toml. A missing file yields the defaults.
//
// Example:
//
//	[cache]
//	enabled = true
//	ttl = "30m"
//
//	[profiles.bookshop]
//	base_url = "http://localhost:8080/api"
//
//	[profiles.bookshop.headers]
//	Authorization = "Bearer t0ps3cret"
type Config struct {
	Cache    CacheConfig        `toml:"cache"`
	Profiles map[string]Profile `toml:"profiles"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	TTL     string `toml:"ttl"`
}

// Profile is a named target API: a base URL that relative command-line
// URLs are resolved against, plus headers sent on every request.
type Profile struct {
	BaseURL string            `toml:"base_url"`
	Headers map[string]string `toml:"headers"`
}

// DefaultConfig returns the configuration used when no config file
// exists: caching on with the default TTL, no profiles.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{Enabled: true},
	}
}

// LoadConfig reads the config file at path. A missing file or an empty
// path is not an error; the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.Cache.ParseTTL(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Profile looks up a named profile. An empty name is no profile, not an
// error; an unknown name is.
func (c Config) Profile(name string) (Profile, bool, error) {
	if name == "" {
		return Profile{}, false, nil
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, false, fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(c.profileNames(), ", "))
	}
	return p, true, nil
}

func (c Config) profileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	return names
}

// ParseTTL parses the configured TTL. Empty means the default.
func (c CacheConfig) ParseTTL() (time.Duration, error) {
	if c.TTL == "" {
		return defaultCacheTTL, nil
	}
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	return ttl, nil
}

// TTLOrDefault returns the configured TTL, falling back to the default
// when it is empty or malformed. LoadConfig already rejected malformed
// values, so the fallback only matters for hand-built configs.
func (c CacheConfig) TTLOrDefault() time.Duration {
	ttl, err := c.ParseTTL()
	if err != nil {
		return defaultCacheTTL
	}
	return ttl
}

// joinURL resolves ref against base, so profiles can shorten command
// lines to paths like "/books".
func joinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
