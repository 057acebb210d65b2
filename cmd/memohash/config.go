/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"fmt"
	"time"

	"github.com/acronis/go-memocache/config"
	"github.com/acronis/go-memocache/log"
	"github.com/acronis/go-memocache/memocache"
)

const envVarsPrefix = "memohash"

const (
	cfgKeyRetryMaxAttempts     = "retry.maxAttempts"
	cfgKeyRetryInitialInterval = "retry.initialInterval"
	cfgKeyMetricsConstLabels   = "constLabels"
)

const (
	defaultRetryMaxAttempts     = 3
	defaultRetryInitialInterval = 100 * time.Millisecond
)

// ComputeConfig configures how file hashes are computed on cache misses.
type ComputeConfig struct {
	Retry RetryConfig `mapstructure:"retry" yaml:"retry" json:"retry"`
}

// RetryConfig configures retries of failed file reads.
// MaxAttempts is the total number of reads of a file, the first one included,
// so at most MaxAttempts-1 retries are made. 0 and 1 disable retries.
type RetryConfig struct {
	MaxAttempts     int                 `mapstructure:"maxAttempts" yaml:"maxAttempts" json:"maxAttempts"`
	InitialInterval config.TimeDuration `mapstructure:"initialInterval" yaml:"initialInterval" json:"initialInterval"`
}

var _ config.Config = (*ComputeConfig)(nil)
var _ config.KeyPrefixProvider = (*ComputeConfig)(nil)

// KeyPrefix implements config.KeyPrefixProvider interface.
func (c *ComputeConfig) KeyPrefix() string {
	return "compute"
}

// SetProviderDefaults implements config.Config interface.
func (c *ComputeConfig) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyRetryMaxAttempts, defaultRetryMaxAttempts)
	dp.SetDefault(cfgKeyRetryInitialInterval, defaultRetryInitialInterval.String())
}

// Set implements config.Config interface.
func (c *ComputeConfig) Set(dp config.DataProvider) error {
	var err error
	if c.Retry.MaxAttempts, err = dp.GetInt(cfgKeyRetryMaxAttempts); err != nil {
		return err
	}
	if c.Retry.MaxAttempts < 0 {
		return dp.WrapKeyErr(cfgKeyRetryMaxAttempts, fmt.Errorf("must be >= 0"))
	}
	var interval time.Duration
	if interval, err = dp.GetDuration(cfgKeyRetryInitialInterval); err != nil {
		return err
	}
	c.Retry.InitialInterval = config.TimeDuration(interval)
	return nil
}

// MetricsConfig configures Prometheus metrics of the cache.
type MetricsConfig struct {
	// ConstLabels are attached to every metric. Label names are lower-cased by the loader.
	ConstLabels map[string]string `mapstructure:"constLabels" yaml:"constLabels" json:"constLabels"`
}

var _ config.Config = (*MetricsConfig)(nil)
var _ config.KeyPrefixProvider = (*MetricsConfig)(nil)

// KeyPrefix implements config.KeyPrefixProvider interface.
func (c *MetricsConfig) KeyPrefix() string {
	return "metrics"
}

// SetProviderDefaults implements config.Config interface.
func (c *MetricsConfig) SetProviderDefaults(config.DataProvider) {}

// Set implements config.Config interface.
func (c *MetricsConfig) Set(dp config.DataProvider) error {
	c.ConstLabels = nil
	return dp.UnmarshalKey(cfgKeyMetricsConstLabels, &c.ConstLabels)
}

// AppConfig is the whole configuration of memohash.
type AppConfig struct {
	Cache   *memocache.Config
	Compute *ComputeConfig
	Metrics *MetricsConfig
	Log     *log.Config
}

// NewAppConfig returns an empty AppConfig ready to be loaded.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Cache:   memocache.NewConfig(),
		Compute: &ComputeConfig{},
		Metrics: &MetricsConfig{},
		Log:     log.NewConfig(),
	}
}

// loadAppConfig reads configuration from the file (if path is not empty) and environment variables.
func loadAppConfig(path string, dataType config.DataType) (*AppConfig, error) {
	cfg := NewAppConfig()
	loader := config.NewDefaultLoader(envVarsPrefix)
	var err error
	if path != "" {
		err = loader.LoadFromFile(path, dataType, cfg.Cache, cfg.Compute, cfg.Metrics, cfg.Log)
	} else {
		err = loader.Load(cfg.Cache, cfg.Compute, cfg.Metrics, cfg.Log)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
