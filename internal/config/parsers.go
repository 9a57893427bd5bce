// Package config provides configuration loading and parsing for captest.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// binding maps a config-file key, and its spelling variants, onto a field of T.
type binding[T any] struct {
	keys  []string
	apply func(dst *T, raw any) error
}

// applyBindings sets every bound field present in settings. Errors are
// reported under the binding's first key.
func applyBindings[T any](dst *T, settings map[string]any, bindings []binding[T]) error {
	for _, b := range bindings {
		raw, ok := lookupSetting(settings, b.keys...)
		if !ok {
			continue
		}
		if err := b.apply(dst, raw); err != nil {
			return fmt.Errorf("%s: %w", b.keys[0], err)
		}
	}
	return nil
}

// lookupSetting returns the first candidate key present in settings, also
// trying its lowercase form since viper folds keys.
func lookupSetting(settings map[string]any, candidates ...string) (any, bool) {
	for _, key := range candidates {
		if val, ok := settings[key]; ok {
			return val, true
		}
		if val, ok := settings[strings.ToLower(key)]; ok {
			return val, true
		}
	}
	return nil, false
}

func trimmedString(raw any) (string, error) {
	s, err := cast.ToStringE(raw)
	return strings.TrimSpace(s), err
}

// asDuration reads a time.Duration, a duration string or a number of seconds.
func asDuration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case string:
		return ParseDuration(v)
	}
	secs, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// asStringSlice keeps a lone string as one element; cast would split it on
// whitespace, which breaks threshold expressions.
func asStringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	}
	return cast.ToStringSliceE(raw)
}

// ParseDuration accepts a Go duration ("90s", "2m") or a bare number of
// seconds ("60", "1.5").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
