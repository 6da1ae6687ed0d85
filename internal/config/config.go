// Package config loads and validates the sync configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var errMissing = errors.New("missing required configuration")

const defaultSyncInterval = time.Hour

// Config is the full configuration surface.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Ledger LedgerConfig `yaml:"ledger"`

	// AccountMapping maps source account ids to ledger account
	// references; transactions for unmapped accounts are skipped.
	AccountMapping map[string]string `yaml:"account_mapping"`
	// RemoveStrings are boilerplate substrings stripped from raw
	// counterparty descriptions, in order.
	RemoveStrings []string `yaml:"remove_strings"`
	// NotDuplicates lists display-name substrings exempt from
	// duplicate collapsing.
	NotDuplicates []string `yaml:"not_duplicates"`
	// MatchTransactions enables fuzzy matching of unlinked entries.
	MatchTransactions bool `yaml:"match_transactions"`
	// SyncInterval is the cadence of the sync loop.
	SyncInterval Duration `yaml:"sync_interval"`
}

// SourceConfig holds aggregator credentials.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url"`
	ClientID    string `yaml:"client_id"`
	Secret      string `yaml:"secret"`
	AccessToken string `yaml:"access_token"`
}

// LedgerConfig holds ledger service credentials.
type LedgerConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
}

// Duration parses Go duration strings from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}

	if parsed <= 0 {
		return fmt.Errorf("duration must be positive, got %q", raw)
	}

	*d = Duration(parsed)

	return nil
}

// Load reads and validates the configuration file. Any validation
// failure is fatal at startup, before a cycle runs.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Zero means the key was absent; an explicit non-positive interval
	// already errored during unmarshaling.
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = Duration(defaultSyncInterval)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Source.BaseURL == "":
		return fmt.Errorf("%w: source.base_url", errMissing)
	case c.Source.AccessToken == "":
		return fmt.Errorf("%w: source.access_token", errMissing)
	case c.Ledger.BaseURL == "":
		return fmt.Errorf("%w: ledger.base_url", errMissing)
	case c.Ledger.APIToken == "":
		return fmt.Errorf("%w: ledger.api_token", errMissing)
	case len(c.AccountMapping) == 0:
		return fmt.Errorf("%w: account_mapping", errMissing)
	}

	for accountID, ref := range c.AccountMapping {
		if ref == "" {
			return fmt.Errorf("%w: account_mapping[%v]", errMissing, accountID)
		}
	}

	return nil
}
