/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package config provides loading of configuration parameters from files, readers and environment variables.
package config

// Config is a common interface for configuration objects that may be used by Loader.
// SetProviderDefaults is called for every object first, then Set reads the final values.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is an interface for providing key prefix that will be used for configuration parameters.
type KeyPrefixProvider interface {
	KeyPrefix() string
}

// dataProviderFor returns a data provider that respects the key prefix of cfg, if any.
func dataProviderFor(dp DataProvider, cfg Config) DataProvider {
	if kp, ok := cfg.(KeyPrefixProvider); ok && kp.KeyPrefix() != "" {
		return NewKeyPrefixedDataProvider(dp, kp.KeyPrefix())
	}
	return dp
}
