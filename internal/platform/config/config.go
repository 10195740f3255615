// Package config handles application configuration via environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bandwatch/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g., "CORE_ALERTS_", "SERVICE_PGSQL_")
// Use New("") for global access, or Prefix("CORE_MAIL_") for module scopes.
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("CORE_API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// get reads and trims the env value; empty and unset look the same on purpose
func (c Conf) get(key string) string {
	return strings.TrimSpace(os.Getenv(c.key(key)))
}

// badValue logs a fallback to default for an unparseable value
func (c Conf) badValue(key, s, want string) {
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).
		Msgf("invalid %s; using default", want)
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MustPort returns a Go net/http addr like ":4000" after validation 1..65535
func (c Conf) MustPort(key string) string {
	s := c.MustString(key)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// Require ensures that all given keys are present (non-empty). Panics otherwise.
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		c.MustString(k)
	}
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty or unparseable
func (c Conf) MayInt(key string, def int) int {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.badValue(key, s, "int")
		return def
	}
	return v
}

// MayFloat64 returns the value or def if missing/empty or unparseable
func (c Conf) MayFloat64(key string, def float64) float64 {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.badValue(key, s, "float64")
		return def
	}
	return v
}

// MayBool returns the value or def if missing/empty or unparseable
func (c Conf) MayBool(key string, def bool) bool {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.badValue(key, s, "bool")
		return def
	}
	return v
}

// MayDuration returns the value or def if missing/empty or unparseable
// Accepts Go duration syntax (250ms, 2s, 1h)
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		c.badValue(key, s, "duration")
		return def
	}
	return v
}

// MayStrings returns a comma-separated list or def if missing/empty
// Blank entries are dropped; a list of only blanks falls back to def
func (c Conf) MayStrings(key string, def []string) []string {
	s := c.get(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
