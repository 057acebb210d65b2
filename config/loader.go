/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import "io"

// Loader fills configuration objects from a DataProvider.
// Defaults of all objects are registered before any of them reads its values.
type Loader struct {
	DataProvider DataProvider
}

// NewLoader creates a Loader reading from dp.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{DataProvider: dp}
}

// NewDefaultLoader creates a Loader backed by viper that also reads environment variables with envVarsPrefix.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// LoadFromFile reads the file and then loads configuration objects.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromFile(path, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// LoadFromReader reads data from reader and then loads configuration objects.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// Load fills configuration objects from what the data provider already has
// (environment variables, defaults, overrides).
func (l *Loader) Load(cfg Config, cfgs ...Config) error {
	all := append([]Config{cfg}, cfgs...)
	providers := make([]DataProvider, len(all))
	for i, c := range all {
		providers[i] = dataProviderFor(l.DataProvider, c)
		c.SetProviderDefaults(providers[i])
	}
	for i, c := range all {
		if err := c.Set(providers[i]); err != nil {
			return err
		}
	}
	return nil
}
