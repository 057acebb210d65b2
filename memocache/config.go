/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package memocache

import (
	"fmt"

	"github.com/acronis/go-memocache/config"
)

const cfgDefaultKeyPrefix = "cache"

const (
	cfgKeyCapacity          = "capacity"
	cfgKeyEvictAfterCompute = "evictAfterCompute"
)

// DefaultCapacity is the capacity used when the configuration does not set one.
const DefaultCapacity = 1024

// Config represents a set of configuration parameters for the cache.
type Config struct {
	Capacity          int  `mapstructure:"capacity" yaml:"capacity" json:"capacity"`
	EvictAfterCompute bool `mapstructure:"evictAfterCompute" yaml:"evictAfterCompute" json:"evictAfterCompute"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the default key prefix ("cache").
func NewConfig() *Config {
	return NewConfigWithKeyPrefix(cfgDefaultKeyPrefix)
}

// NewConfigWithKeyPrefix creates a new instance of the Config with the key prefix.
// This prefix will be used by config.Loader.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix, Capacity: DefaultCapacity}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for the cache in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyCapacity, DefaultCapacity)
	dp.SetDefault(cfgKeyEvictAfterCompute, false)
}

// Set sets cache configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Capacity, err = dp.GetInt(cfgKeyCapacity); err != nil {
		return err
	}
	if c.Capacity <= 0 {
		return dp.WrapKeyErr(cfgKeyCapacity, fmt.Errorf("must be greater than 0"))
	}
	if c.EvictAfterCompute, err = dp.GetBool(cfgKeyEvictAfterCompute); err != nil {
		return err
	}
	return nil
}

// NewFromConfig creates a new Cache using the capacity and eviction ordering from cfg.
// Other options are taken from opts.
func NewFromConfig[K comparable, V any](cfg *Config, computeValue ComputeFunc[K, V], opts Options) (*Cache[K, V], error) {
	opts.EvictAfterCompute = cfg.EvictAfterCompute
	return NewWithOpts[K, V](cfg.Capacity, computeValue, opts)
}
