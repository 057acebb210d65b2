/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ViperAdapter implements DataProvider on top of a private viper instance.
type ViperAdapter struct {
	viper *viper.Viper
}

var _ DataProvider = (*ViperAdapter)(nil)

// NewViperAdapter creates a new ViperAdapter with an empty viper instance.
func NewViperAdapter() *ViperAdapter {
	return &ViperAdapter{viper: viper.New()}
}

// UseEnvVars makes every key also readable from an environment variable.
// The variable name is the upper-cased prefix and key joined by "_", with dots replaced by "_",
// so with prefix "memohash" the "cache.capacity" key is read from MEMOHASH_CACHE_CAPACITY.
func (va *ViperAdapter) UseEnvVars(prefix string) {
	va.viper.SetEnvPrefix(prefix)
	va.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	va.viper.AutomaticEnv()
}

// Set overrides the value of the key. Overrides win over every other source.
func (va *ViperAdapter) Set(key string, value interface{}) { va.viper.Set(key, value) }

// SetDefault sets the value used when neither the loaded data nor environment has the key.
func (va *ViperAdapter) SetDefault(key string, value interface{}) { va.viper.SetDefault(key, value) }

// IsSet reports whether the key has a value in any source.
func (va *ViperAdapter) IsSet(key string) bool { return va.viper.IsSet(key) }

// Get returns the raw value of the key.
func (va *ViperAdapter) Get(key string) interface{} { return va.viper.Get(key) }

// SetFromFile reads data of the given format from the file at path.
func (va *ViperAdapter) SetFromFile(path string, dataType DataType) error {
	va.viper.SetConfigFile(path)
	va.viper.SetConfigType(string(dataType))
	if err := va.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

// SetFromReader reads data of the given format from reader.
func (va *ViperAdapter) SetFromReader(reader io.Reader, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	if err := va.viper.ReadConfig(reader); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// GetBool returns the value of the key converted to bool.
func (va *ViperAdapter) GetBool(key string) (bool, error) { return castValue(va, key, cast.ToBoolE) }

// GetInt returns the value of the key converted to int.
func (va *ViperAdapter) GetInt(key string) (int, error) { return castValue(va, key, cast.ToIntE) }

// GetString returns the value of the key converted to string.
func (va *ViperAdapter) GetString(key string) (string, error) {
	return castValue(va, key, cast.ToStringE)
}

// GetStringFromSet returns the value of the key if it is one of allowed.
func (va *ViperAdapter) GetStringFromSet(key string, allowed []string, ignoreCase bool) (string, error) {
	val, err := va.GetString(key)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if val == a || (ignoreCase && strings.EqualFold(val, a)) {
			return val, nil
		}
	}
	return "", WrapKeyErr(key, fmt.Errorf("unknown value %q, should be one of %v", val, allowed))
}

// GetDuration returns the value of the key as time.Duration.
// Strings like "1m30s" and integer nanoseconds are accepted, an absent key gives zero.
func (va *ViperAdapter) GetDuration(key string) (time.Duration, error) {
	if va.Get(key) == nil {
		return 0, nil
	}
	return castValue(va, key, cast.ToDurationE)
}

// GetByteSize returns the value of the key as ByteSize.
// Integers and human-readable strings ("100M", "1Gi") are accepted, an absent or blank key gives zero.
func (va *ViperAdapter) GetByteSize(key string) (ByteSize, error) {
	return castValue(va, key, toByteSizeE)
}

// UnmarshalKey decodes the value of the key into rawVal with mapstructure.
func (va *ViperAdapter) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	viperOpts := make([]viper.DecoderConfigOption, 0, len(opts))
	for _, opt := range opts {
		viperOpts = append(viperOpts, viper.DecoderConfigOption(opt))
	}
	return WrapKeyErrIfNeeded(key, va.viper.UnmarshalKey(key, rawVal, viperOpts...))
}

// WrapKeyErr prepends the key to the error message.
func (va *ViperAdapter) WrapKeyErr(key string, err error) error { return WrapKeyErr(key, err) }

func castValue[T any](va *ViperAdapter, key string, conv func(interface{}) (T, error)) (T, error) {
	res, err := conv(va.Get(key))
	if err != nil {
		var zero T
		return zero, WrapKeyErr(key, err)
	}
	return res, nil
}

func toByteSizeE(val interface{}) (ByteSize, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case ByteSize:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		return ParseByteSize(v)
	}
	num, err := cast.ToInt64E(val)
	if err != nil {
		return 0, err
	}
	if num < 0 {
		return 0, fmt.Errorf("negative value is not allowed: %d", num)
	}
	return ByteSize(num), nil
}
