// Package config loads circlepack settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/parser"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "circlepack.yaml"

// Config holds all circlepack configuration.
type Config struct {
	// Sheet selection; empty picks the first table-like sheet
	OrganizationSheet string `yaml:"organization_sheet"`
	PeopleSheet       string `yaml:"people_sheet"`

	// Keep repeated (circle, role) rows as separate roles unless set
	MergeDuplicateRoles bool `yaml:"merge_duplicate_roles"`

	// basic or extended
	RuleSet string `yaml:"rule_set"`

	Columns ColumnsConfig `yaml:"columns"`
	Share   ShareConfig   `yaml:"share"`
	Logging LoggingConfig `yaml:"logging"`
}

// ColumnsConfig overrides 0-based column positions per sheet kind.
// Keys are circle, role, person and fte.
type ColumnsConfig struct {
	Organization map[string]int `yaml:"organization,omitempty"`
	Assignment   map[string]int `yaml:"assignment,omitempty"`
}

// ShareConfig configures dataset sharing.
type ShareConfig struct {
	RemoteURL string `yaml:"remote_url"` // empty disables the remote store
	Timeout   string `yaml:"timeout"`
	LocalDB   string `yaml:"local_db"`
	TTL       string `yaml:"ttl"` // empty keeps datasets forever
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RuleSet: string(analyzer.RuleSetExtended),
		Share: ShareConfig{
			Timeout: "5s",
			LocalDB: filepath.Join(".circlepack", "shares.db"),
			TTL:     "720h",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CIRCLEPACK_REMOTE_URL"); url != "" {
		c.Share.RemoteURL = url
	}
	if path := os.Getenv("CIRCLEPACK_DB"); path != "" {
		c.Share.LocalDB = path
	}
	if level := os.Getenv("CIRCLEPACK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks rule set, durations and column overrides.
func (c *Config) Validate() error {
	if _, err := analyzer.ParseRuleSet(c.RuleSet); err != nil {
		return err
	}
	if _, err := parseDuration(c.Share.Timeout); err != nil {
		return fmt.Errorf("invalid share timeout: %w", err)
	}
	if _, err := parseDuration(c.Share.TTL); err != nil {
		return fmt.Errorf("invalid share ttl: %w", err)
	}
	if err := parser.OrganizationSchema().WithColumns(c.OrganizationColumns()).Validate(); err != nil {
		return err
	}
	return parser.AssignmentSchema().WithColumns(c.AssignmentColumns()).Validate()
}

// GetShareTimeout returns the remote store timeout.
func (c *Config) GetShareTimeout() time.Duration {
	d, _ := parseDuration(c.Share.Timeout)
	return d
}

// GetShareTTL returns how long shared datasets stay valid. Zero means forever.
func (c *Config) GetShareTTL() time.Duration {
	d, _ := parseDuration(c.Share.TTL)
	return d
}

// OrganizationColumns returns organization column overrides.
func (c *Config) OrganizationColumns() parser.ColumnMap {
	return toColumnMap(c.Columns.Organization)
}

// AssignmentColumns returns assignment column overrides.
func (c *Config) AssignmentColumns() parser.ColumnMap {
	return toColumnMap(c.Columns.Assignment)
}

func toColumnMap(m map[string]int) parser.ColumnMap {
	if len(m) == 0 {
		return nil
	}
	cols := make(parser.ColumnMap, len(m))
	for k, v := range m {
		cols[parser.Field(k)] = v
	}
	return cols
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
