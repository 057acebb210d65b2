/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"strings"

	"github.com/ssgreg/logf"

	"github.com/acronis/go-memocache/config"
)

const cfgDefaultKeyPrefix = "log"

const (
	cfgKeyLevel          = "level"
	cfgKeyFormat         = "format"
	cfgKeyOutput         = "output"
	cfgKeyNoColor        = "nocolor"
	cfgKeyAddCaller      = "addCaller"
	cfgKeyFilePath       = "file.path"
	cfgKeyFileMaxSize    = "file.maxSize"
	cfgKeyFileMaxBackups = "file.maxBackups"
	cfgKeyFileMaxAgeDays = "file.maxAgeDays"
	cfgKeyFileCompress   = "file.compress"
)

// Defaults and limits of file output rotation.
const (
	DefaultFileMaxSize    config.ByteSize = 100 << 20
	MinFileMaxSize        config.ByteSize = 1 << 20
	DefaultFileMaxBackups                 = 5
)

// Level is a severity of log messages.
type Level string

// Supported levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var logfLevels = map[Level]logf.Level{
	LevelError: logf.LevelError,
	LevelWarn:  logf.LevelWarn,
	LevelInfo:  logf.LevelInfo,
	LevelDebug: logf.LevelDebug,
}

// Logf returns the matching logf level. Unknown levels map to info.
func (lvl Level) Logf() logf.Level {
	if l, ok := logfLevels[lvl]; ok {
		return l
	}
	return logf.LevelInfo
}

// LevelFromLogf is the inverse of Level.Logf.
func LevelFromLogf(l logf.Level) Level {
	for lvl, ll := range logfLevels {
		if ll == l {
			return lvl
		}
	}
	return LevelInfo
}

// Format is an encoding of log entries.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Output is a destination of log entries.
type Output string

// Supported outputs.
const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
	OutputFile   Output = "file"
)

// Config is the logging configuration.
type Config struct {
	Level     Level      `mapstructure:"level" yaml:"level" json:"level"`
	Format    Format     `mapstructure:"format" yaml:"format" json:"format"`
	Output    Output     `mapstructure:"output" yaml:"output" json:"output"`
	NoColor   bool       `mapstructure:"nocolor" yaml:"nocolor" json:"nocolor"`
	AddCaller bool       `mapstructure:"addCaller" yaml:"addCaller" json:"addCaller"`
	File      FileConfig `mapstructure:"file" yaml:"file" json:"file"`

	keyPrefix string
}

// FileConfig configures the file output and its size-based rotation.
// Path may contain {{pid}} and {{starttime}} placeholders.
type FileConfig struct {
	Path       string          `mapstructure:"path" yaml:"path" json:"path"`
	MaxSize    config.ByteSize `mapstructure:"maxSize" yaml:"maxSize" json:"maxSize"`
	MaxBackups int             `mapstructure:"maxBackups" yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays int             `mapstructure:"maxAgeDays" yaml:"maxAgeDays" json:"maxAgeDays"`
	Compress   bool            `mapstructure:"compress" yaml:"compress" json:"compress"`
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ConfigOption customizes a Config created by NewConfig or NewDefaultConfig.
type ConfigOption func(*Config)

// WithKeyPrefix sets the key prefix the configuration is read under ("log" by default).
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(c *Config) {
		c.keyPrefix = keyPrefix
	}
}

// NewConfig creates an empty Config to be filled by config.Loader.
func NewConfig(options ...ConfigOption) *Config {
	c := &Config{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// NewDefaultConfig creates a Config with default values, ready to be used without loading.
func NewDefaultConfig(options ...ConfigOption) *Config {
	c := NewConfig(options...)
	c.Level = LevelInfo
	c.Format = FormatJSON
	c.Output = OutputStdout
	c.File.MaxSize = DefaultFileMaxSize
	c.File.MaxBackups = DefaultFileMaxBackups
	return c
}

// KeyPrefix implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyLevel, string(LevelInfo))
	dp.SetDefault(cfgKeyFormat, string(FormatJSON))
	dp.SetDefault(cfgKeyOutput, string(OutputStdout))
	dp.SetDefault(cfgKeyFileMaxSize, DefaultFileMaxSize.String())
	dp.SetDefault(cfgKeyFileMaxBackups, DefaultFileMaxBackups)
}

// Set implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) (err error) {
	if c.Level, err = getOneOf(dp, cfgKeyLevel, LevelError, LevelWarn, LevelInfo, LevelDebug); err != nil {
		return err
	}
	if c.Format, err = getOneOf(dp, cfgKeyFormat, FormatJSON, FormatText); err != nil {
		return err
	}
	if c.Output, err = getOneOf(dp, cfgKeyOutput, OutputStdout, OutputStderr, OutputFile); err != nil {
		return err
	}
	if c.NoColor, err = dp.GetBool(cfgKeyNoColor); err != nil {
		return err
	}
	if c.AddCaller, err = dp.GetBool(cfgKeyAddCaller); err != nil {
		return err
	}
	return c.setFile(dp)
}

func (c *Config) setFile(dp config.DataProvider) (err error) {
	if c.File.Path, err = dp.GetString(cfgKeyFilePath); err != nil {
		return err
	}
	if c.Output == OutputFile && c.File.Path == "" {
		return dp.WrapKeyErr(cfgKeyFilePath, fmt.Errorf("cannot be empty when %q output is used", OutputFile))
	}
	if c.File.MaxSize, err = dp.GetByteSize(cfgKeyFileMaxSize); err != nil {
		return err
	}
	if c.File.MaxSize < MinFileMaxSize {
		return dp.WrapKeyErr(cfgKeyFileMaxSize, fmt.Errorf("should be >= %s", MinFileMaxSize))
	}
	if c.File.MaxBackups, err = dp.GetInt(cfgKeyFileMaxBackups); err != nil {
		return err
	}
	if c.File.MaxBackups < 0 {
		return dp.WrapKeyErr(cfgKeyFileMaxBackups, fmt.Errorf("should be >= 0"))
	}
	if c.File.MaxAgeDays, err = dp.GetInt(cfgKeyFileMaxAgeDays); err != nil {
		return err
	}
	if c.File.MaxAgeDays < 0 {
		return dp.WrapKeyErr(cfgKeyFileMaxAgeDays, fmt.Errorf("should be >= 0"))
	}
	c.File.Compress, err = dp.GetBool(cfgKeyFileCompress)
	return err
}

// getOneOf reads a case-insensitive enumerated value.
func getOneOf[T ~string](dp config.DataProvider, key string, allowed ...T) (T, error) {
	set := make([]string, len(allowed))
	for i, a := range allowed {
		set[i] = string(a)
	}
	val, err := dp.GetStringFromSet(key, set, true)
	if err != nil {
		return "", err
	}
	return T(strings.ToLower(val)), nil
}
