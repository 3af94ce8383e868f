// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultArenaSize is the arena size used by the CLI when UTENSOR_ARENA_SIZE is unset.
const DefaultArenaSize = 64 << 10

// Var returns an environment variable stripped of surrounding whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter for a boolean variable. Any value that does
// not parse as a bool counts as set.
func BoolWithDefault(key string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(key); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable defaulting to false.
func Bool(key string) func() bool {
	withDefault := BoolWithDefault(key)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a getter for an unsigned variable. Invalid values log a warning
// and fall back to defaultValue.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

var (
	// CheckShapes enables the validating wrapper on fully-connected nodes.
	CheckShapes = Bool("UTENSOR_CHECK_SHAPES")
	// ArenaSize is the byte size of the arena used for CLI graph runs.
	ArenaSize = Uint("UTENSOR_ARENA_SIZE", DefaultArenaSize)
)

// LogLevel returns the log level from UTENSOR_DEBUG. A truthy value selects
// debug; an integer n selects level -4*n.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("UTENSOR_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// EnvVar describes one setting.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every setting with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"UTENSOR_DEBUG":        {"UTENSOR_DEBUG", LogLevel(), "Show debug logging (e.g. UTENSOR_DEBUG=1)"},
		"UTENSOR_CHECK_SHAPES": {"UTENSOR_CHECK_SHAPES", CheckShapes(), "Validate tensor shapes before running kernels"},
		"UTENSOR_ARENA_SIZE":   {"UTENSOR_ARENA_SIZE", ArenaSize(), "Arena size in bytes for graph runs (default 65536)"},
	}
}

// Values returns every setting formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
