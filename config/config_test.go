/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testStoreConfigYAML = `
store:
  name: users
  capacity: 30
  ttl: 90s
  maxSize: 100M
  mode: LRU
`

const testStoreConfigJSON = `{"store": {"name":"users","capacity":30,"ttl":"90s","maxSize":"100M","mode":"LRU"}}`

type testStoreConfig struct {
	Name     string
	Capacity int
	TTL      time.Duration
	MaxSize  ByteSize
	Mode     string

	keyPrefix string
}

func (c *testStoreConfig) KeyPrefix() string {
	return c.keyPrefix
}

func (c *testStoreConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("name", "default")
	dp.SetDefault("capacity", 146)
	dp.SetDefault("mode", "lru")
}

func (c *testStoreConfig) Set(dp DataProvider) (err error) {
	if c.Name, err = dp.GetString("name"); err != nil {
		return err
	}
	if c.Capacity, err = dp.GetInt("capacity"); err != nil {
		return err
	}
	if c.Capacity <= 0 {
		return dp.WrapKeyErr("capacity", fmt.Errorf("must be positive"))
	}
	if c.TTL, err = dp.GetDuration("ttl"); err != nil {
		return err
	}
	if c.MaxSize, err = dp.GetByteSize("maxSize"); err != nil {
		return err
	}
	if c.Mode, err = dp.GetStringFromSet("mode", []string{"lru"}, true); err != nil {
		return err
	}
	return nil
}

func TestLoader_LoadFromReader(t *testing.T) {
	tests := []struct {
		name     string
		dataType DataType
		data     string
	}{
		{name: "yaml", dataType: DataTypeYAML, data: testStoreConfigYAML},
		{name: "json", dataType: DataTypeJSON, data: testStoreConfigJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &testStoreConfig{keyPrefix: "store"}
			err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(tt.data), tt.dataType, cfg)
			require.NoError(t, err)
			require.Equal(t, &testStoreConfig{
				Name:      "users",
				Capacity:  30,
				TTL:       90 * time.Second,
				MaxSize:   100 * 1024 * 1024,
				Mode:      "LRU",
				keyPrefix: "store",
			}, cfg)
		})
	}
}

func TestLoader_Defaults(t *testing.T) {
	cfg := &testStoreConfig{keyPrefix: "store"}
	require.NoError(t, NewLoader(NewViperAdapter()).Load(cfg))
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 146, cfg.Capacity)
	require.Equal(t, time.Duration(0), cfg.TTL)
	require.Equal(t, ByteSize(0), cfg.MaxSize)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "non-positive capacity",
			data:    "store:\n  capacity: 0\n",
			wantErr: "store.capacity: must be positive",
		},
		{
			name:    "unknown mode",
			data:    "store:\n  mode: lfu\n",
			wantErr: `store.mode: unknown value "lfu", should be one of [lru]`,
		},
		{
			name:    "invalid size",
			data:    "store:\n  maxSize: lots\n",
			wantErr: "store.maxSize: invalid byte size format (lots)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &testStoreConfig{keyPrefix: "store"}
			err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(tt.data), DataTypeYAML, cfg)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testStoreConfigYAML), 0o600))

	cfg := &testStoreConfig{keyPrefix: "store"}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadFromFile(path, DataTypeYAML, cfg))
	require.Equal(t, 30, cfg.Capacity)

	err := NewLoader(NewViperAdapter()).LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"), DataTypeYAML, cfg)
	require.Error(t, err)
}

func TestLoader_EnvVars(t *testing.T) {
	t.Setenv("MEMOTEST_STORE_CAPACITY", "7")
	t.Setenv("MEMOTEST_STORE_NAME", "from-env")

	cfg := &testStoreConfig{keyPrefix: "store"}
	require.NoError(t, NewDefaultLoader("memotest").Load(cfg))
	require.Equal(t, 7, cfg.Capacity)
	require.Equal(t, "from-env", cfg.Name)
}

func TestKeyPrefixedDataProvider(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(testStoreConfigYAML), DataTypeYAML))

	dp := NewKeyPrefixedDataProvider(va, "store")
	require.True(t, dp.IsSet("name"))
	require.False(t, dp.IsSet("missing"))

	name, err := dp.GetString("name")
	require.NoError(t, err)
	require.Equal(t, "users", name)

	var raw struct {
		Capacity int `mapstructure:"capacity"`
	}
	require.NoError(t, dp.UnmarshalKey("", &raw))
	require.Equal(t, 30, raw.Capacity)
	require.ErrorContains(t, dp.UnmarshalKey("", &raw, ErrorUnused()), "store: ")

	dp.Set("name", "overridden")
	name, err = va.GetString("store.name")
	require.NoError(t, err)
	require.Equal(t, "overridden", name)

	// The override of a single key hides the values loaded for its siblings from UnmarshalKey of the parent.
	raw.Capacity = 0
	require.NoError(t, dp.UnmarshalKey("", &raw))
	require.Equal(t, 0, raw.Capacity)
	capacity, err := dp.GetInt("capacity")
	require.NoError(t, err)
	require.Equal(t, 30, capacity)

	require.EqualError(t, dp.WrapKeyErr("capacity", fmt.Errorf("bad")), "store.capacity: bad")
}

func TestByteSize(t *testing.T) {
	type holder struct {
		Size ByteSize `json:"size" yaml:"size"`
	}

	tests := []struct {
		name string
		json string
		yaml string
		want ByteSize
	}{
		{name: "integer", json: `{"size":1024}`, yaml: "size: 1024", want: 1024},
		{name: "human-readable", json: `{"size":"250M"}`, yaml: "size: 250M", want: 250 * 1024 * 1024},
		{name: "k8s suffix", json: `{"size":"1Gi"}`, yaml: "size: 1Gi", want: 1024 * 1024 * 1024},
		{name: "k8s kibibytes", json: `{"size":"2Ki"}`, yaml: "size: 2Ki", want: 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromJSON holder
			require.NoError(t, json.Unmarshal([]byte(tt.json), &fromJSON))
			require.Equal(t, tt.want, fromJSON.Size)

			var fromYAML holder
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &fromYAML))
			require.Equal(t, tt.want, fromYAML.Size)
		})
	}

	var h holder
	require.Error(t, json.Unmarshal([]byte(`{"size":-1}`), &h))
	require.Error(t, yaml.Unmarshal([]byte("size: big"), &h))
}

func TestTimeDuration(t *testing.T) {
	type holder struct {
		Interval TimeDuration `json:"interval" yaml:"interval"`
	}

	var fromJSON holder
	require.NoError(t, json.Unmarshal([]byte(`{"interval":"1h30m"}`), &fromJSON))
	require.Equal(t, TimeDuration(90*time.Minute), fromJSON.Interval)

	var fromYAML holder
	require.NoError(t, yaml.Unmarshal([]byte("interval: 1000"), &fromYAML))
	require.Equal(t, TimeDuration(1000), fromYAML.Interval)

	data, err := json.Marshal(holder{Interval: TimeDuration(2 * time.Second)})
	require.NoError(t, err)
	require.JSONEq(t, `{"interval":"2s"}`, string(data))

	require.Error(t, json.Unmarshal([]byte(`{"interval":"soon"}`), &fromJSON))
}
