/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v3"
)

// ByteSize is a size in bytes that can be written as an integer or
// in human-readable form ("250M", "1G", k8s-style "1Gi").
type ByteSize uint64

// ParseByteSize parses a size in bytes.
func ParseByteSize(s string) (ByteSize, error) {
	v := strings.TrimSpace(s)
	if n, ok, err := parseNonNegativeInt(v); ok {
		return ByteSize(n), err
	}
	// bytefmt treats "M" and "Mi" alike, so the trailing "i" is enough to drop.
	if len(v) > 2 && v[len(v)-1] == 'i' && strings.ContainsRune("KMGTPE", rune(v[len(v)-2])) {
		v = v[:len(v)-1]
	}
	n, err := bytefmt.ToBytes(v)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size format (%s): %w", s, err)
	}
	return ByteSize(n), nil
}

func (b ByteSize) String() string { return bytefmt.ByteSize(uint64(b)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	return unmarshalWith(text, ParseByteSize, b)
}

// UnmarshalJSON implements json.Unmarshaler. Both numbers and strings are accepted.
func (b *ByteSize) UnmarshalJSON(data []byte) error {
	return b.UnmarshalText(unquoteJSON(data))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid byte size format: scalar expected at line %d", node.Line)
	}
	return b.UnmarshalText([]byte(node.Value))
}

// MarshalJSON implements json.Marshaler.
func (b ByteSize) MarshalJSON() ([]byte, error) { return json.Marshal(b.String()) }

// MarshalYAML implements yaml.Marshaler.
func (b ByteSize) MarshalYAML() (interface{}, error) { return b.String(), nil }

// TimeDuration is a time.Duration that can be written as integer nanoseconds or as a Go duration string ("1h30m").
type TimeDuration time.Duration

// ParseTimeDuration parses a time duration.
func ParseTimeDuration(s string) (TimeDuration, error) {
	v := strings.TrimSpace(s)
	if n, ok, err := parseNonNegativeInt(v); ok {
		return TimeDuration(n), err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid time duration format (%s): %w", s, err)
	}
	return TimeDuration(d), nil
}

func (d TimeDuration) String() string { return time.Duration(d).String() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *TimeDuration) UnmarshalText(text []byte) error {
	return unmarshalWith(text, ParseTimeDuration, d)
}

// UnmarshalJSON implements json.Unmarshaler. Both numbers and strings are accepted.
func (d *TimeDuration) UnmarshalJSON(data []byte) error {
	return d.UnmarshalText(unquoteJSON(data))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *TimeDuration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid time duration format: scalar expected at line %d", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalJSON implements json.Marshaler.
func (d TimeDuration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// MarshalYAML implements yaml.Marshaler.
func (d TimeDuration) MarshalYAML() (interface{}, error) { return d.String(), nil }

// parseNonNegativeInt reports ok=true if s is an integer, err is set when it is negative.
func parseNonNegativeInt(s string) (n int64, ok bool, err error) {
	n, parseErr := strconv.ParseInt(s, 10, 64)
	if parseErr != nil {
		return 0, false, nil
	}
	if n < 0 {
		return 0, true, fmt.Errorf("negative value is not allowed: %d", n)
	}
	return n, true, nil
}

func unquoteJSON(data []byte) []byte {
	if s, err := strconv.Unquote(string(data)); err == nil {
		return []byte(s)
	}
	return data
}

func unmarshalWith[T any](text []byte, parse func(string) (T, error), dst *T) error {
	v, err := parse(string(text))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
