/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"
	"strings"
	"time"
)

// KeyPrefixedDataProvider is a view of another DataProvider in which every key is relative to a prefix.
// Loading data and enabling environment variables are passed through unchanged.
// Set on a prefixed key puts a map under the prefix into the override layer,
// so UnmarshalKey("") no longer sees the loaded values of sibling keys. Typed getters still do.
type KeyPrefixedDataProvider struct {
	delegate  DataProvider
	keyPrefix string
}

var _ DataProvider = (*KeyPrefixedDataProvider)(nil)

// NewKeyPrefixedDataProvider creates a view of delegate rooted at keyPrefix.
func NewKeyPrefixedDataProvider(delegate DataProvider, keyPrefix string) *KeyPrefixedDataProvider {
	return &KeyPrefixedDataProvider{delegate: delegate, keyPrefix: keyPrefix}
}

func (kp *KeyPrefixedDataProvider) key(k string) string {
	return strings.Trim(kp.keyPrefix+"."+k, ".")
}

func (kp *KeyPrefixedDataProvider) UseEnvVars(prefix string) { kp.delegate.UseEnvVars(prefix) }

func (kp *KeyPrefixedDataProvider) SetFromFile(path string, dataType DataType) error {
	return kp.delegate.SetFromFile(path, dataType)
}

func (kp *KeyPrefixedDataProvider) SetFromReader(reader io.Reader, dataType DataType) error {
	return kp.delegate.SetFromReader(reader, dataType)
}

func (kp *KeyPrefixedDataProvider) Set(k string, value interface{}) { kp.delegate.Set(kp.key(k), value) }

func (kp *KeyPrefixedDataProvider) SetDefault(k string, value interface{}) {
	kp.delegate.SetDefault(kp.key(k), value)
}

func (kp *KeyPrefixedDataProvider) IsSet(k string) bool { return kp.delegate.IsSet(kp.key(k)) }

func (kp *KeyPrefixedDataProvider) Get(k string) interface{} { return kp.delegate.Get(kp.key(k)) }

func (kp *KeyPrefixedDataProvider) GetBool(k string) (bool, error) { return kp.delegate.GetBool(kp.key(k)) }

func (kp *KeyPrefixedDataProvider) GetInt(k string) (int, error) { return kp.delegate.GetInt(kp.key(k)) }

func (kp *KeyPrefixedDataProvider) GetString(k string) (string, error) {
	return kp.delegate.GetString(kp.key(k))
}

func (kp *KeyPrefixedDataProvider) GetStringFromSet(k string, allowed []string, ignoreCase bool) (string, error) {
	return kp.delegate.GetStringFromSet(kp.key(k), allowed, ignoreCase)
}

func (kp *KeyPrefixedDataProvider) GetDuration(k string) (time.Duration, error) {
	return kp.delegate.GetDuration(kp.key(k))
}

func (kp *KeyPrefixedDataProvider) GetByteSize(k string) (ByteSize, error) {
	return kp.delegate.GetByteSize(kp.key(k))
}

func (kp *KeyPrefixedDataProvider) UnmarshalKey(k string, rawVal interface{}, opts ...DecoderConfigOption) error {
	return kp.delegate.UnmarshalKey(kp.key(k), rawVal, opts...)
}

func (kp *KeyPrefixedDataProvider) WrapKeyErr(k string, err error) error {
	return WrapKeyErr(kp.key(k), err)
}
