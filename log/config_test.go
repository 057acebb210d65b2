/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-memocache/config"
)

func loadConfig(cfg *Config, dataType config.DataType, data string) error {
	return config.NewLoader(config.NewViperAdapter()).LoadFromReader(bytes.NewBufferString(data), dataType, cfg)
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		dataType config.DataType
		data     string
		wantCfg  func(cfg *Config)
	}{
		{
			name:     "empty",
			dataType: config.DataTypeYAML,
			wantCfg:  func(cfg *Config) {},
		},
		{
			name:     "yaml, file output",
			dataType: config.DataTypeYAML,
			data: `
log:
  level: WARN
  format: text
  output: file
  addCaller: true
  file:
    path: memohash-{{pid}}.log
    maxSize: 10M
    maxBackups: 0
    maxAgeDays: 7
    compress: true
`,
			wantCfg: func(cfg *Config) {
				cfg.Level = LevelWarn
				cfg.Format = FormatText
				cfg.Output = OutputFile
				cfg.AddCaller = true
				cfg.File = FileConfig{Path: "memohash-{{pid}}.log", MaxSize: 10 << 20, MaxAgeDays: 7, Compress: true}
			},
		},
		{
			name:     "json, stderr",
			dataType: config.DataTypeJSON,
			data:     `{"log": {"level": "error", "output": "stderr", "nocolor": true}}`,
			wantCfg: func(cfg *Config) {
				cfg.Level = LevelError
				cfg.Output = OutputStderr
				cfg.NoColor = true
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			require.NoError(t, loadConfig(cfg, tt.dataType, tt.data))
			wantCfg := NewDefaultConfig()
			tt.wantCfg(wantCfg)
			require.Equal(t, wantCfg, cfg)
		})
	}
}

func TestConfig_KeyPrefix(t *testing.T) {
	cfg := NewConfig(WithKeyPrefix("memohash.log"))
	require.NoError(t, loadConfig(cfg, config.DataTypeYAML, "memohash:\n  log:\n    level: debug\n"))

	wantCfg := NewDefaultConfig(WithKeyPrefix("memohash.log"))
	wantCfg.Level = LevelDebug
	require.Equal(t, wantCfg, cfg)
	require.Equal(t, "memohash.log", cfg.KeyPrefix())
	require.Equal(t, "log", NewConfig().KeyPrefix())
}

func TestConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown level",
			data:    "log:\n  level: verbose\n",
			wantErr: `log.level: unknown value "verbose", should be one of [error warn info debug]`,
		},
		{
			name:    "unknown format",
			data:    "log:\n  format: xml\n",
			wantErr: `log.format: unknown value "xml", should be one of [json text]`,
		},
		{
			name:    "unknown output",
			data:    "log:\n  output: syslog\n",
			wantErr: `log.output: unknown value "syslog", should be one of [stdout stderr file]`,
		},
		{
			name:    "file output without path",
			data:    "log:\n  output: file\n",
			wantErr: `log.file.path: cannot be empty when "file" output is used`,
		},
		{
			name:    "too small max size",
			data:    "log:\n  file:\n    maxSize: 1K\n",
			wantErr: `log.file.maxSize: should be >= 1M`,
		},
		{
			name:    "negative max backups",
			data:    "log:\n  file:\n    maxBackups: -1\n",
			wantErr: `log.file.maxBackups: should be >= 0`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, loadConfig(NewConfig(), config.DataTypeYAML, tt.data), tt.wantErr)
		})
	}
}
