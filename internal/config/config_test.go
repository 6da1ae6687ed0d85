package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
source:
  base_url: https://source.example
  client_id: cid
  secret: sec
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
remove_strings:
  - "POS PURCHASE "
not_duplicates:
  - Spotify
match_transactions: true
sync_interval: 30m
`

func write(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := Load(write(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://source.example", cfg.Source.BaseURL)
	assert.Equal(t, "tok", cfg.Source.AccessToken)
	assert.Equal(t, "ledger-tok", cfg.Ledger.APIToken)
	assert.Equal(t, map[string]string{"acc-1": "7"}, cfg.AccountMapping)
	assert.Equal(t, []string{"POS PURCHASE "}, cfg.RemoveStrings)
	assert.Equal(t, []string{"Spotify"}, cfg.NotDuplicates)
	assert.True(t, cfg.MatchTransactions)
	assert.Equal(t, 30*time.Minute, time.Duration(cfg.SyncInterval))
}

func TestLoad_DefaultInterval(t *testing.T) {
	t.Parallel()

	cfg, err := Load(write(t, `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
`))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, time.Duration(cfg.SyncInterval))
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing source base url",
			content: `
source:
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
`,
		},
		{
			name: "missing source access token",
			content: `
source:
  base_url: https://source.example
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
`,
		},
		{
			name: "missing ledger token",
			content: `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
account_mapping:
  acc-1: "7"
`,
		},
		{
			name: "empty account mapping",
			content: `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
`,
		},
		{
			name: "blank mapping target",
			content: `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: ""
`,
		},
		{
			name:    "not yaml",
			content: `{`,
		},
		{
			name: "zero interval",
			content: `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
sync_interval: 0s
`,
		},
		{
			name: "negative interval",
			content: `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
sync_interval: -5m
`,
		},
		{
			name: "bad interval",
			content: `
source:
  base_url: https://source.example
  access_token: tok
ledger:
  base_url: https://ledger.example
  api_token: ledger-tok
account_mapping:
  acc-1: "7"
sync_interval: soon
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(write(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
