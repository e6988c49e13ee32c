package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/autojournal/internal/accounts"
	"github.com/cleared-dev/autojournal/internal/model"
)

// FileName is the config file at the root of a business repository.
const FileName = "autojournal.yaml"

// EnvPrefix prefixes environment overrides, e.g. AUTOJOURNAL_THRESHOLDS_AUTO_CONFIRM.
const EnvPrefix = "AUTOJOURNAL"

// Config represents the top-level autojournal.yaml configuration.
type Config struct {
	Business     BusinessConfig   `yaml:"business" mapstructure:"business"`
	Fiscal       FiscalConfig     `yaml:"fiscal" mapstructure:"fiscal"`
	BankAccounts []BankAccount    `yaml:"bank_accounts,omitempty" mapstructure:"bank_accounts"`
	Thresholds   ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
	Journal      JournalConfig    `yaml:"journal" mapstructure:"journal"`
	Git          GitConfig        `yaml:"git" mapstructure:"git"`
	Log          LogConfig        `yaml:"log" mapstructure:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name" mapstructure:"name"`
	EntityType string `yaml:"entity_type" mapstructure:"entity_type"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" mapstructure:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// BankAccount maps a bank feed to a chart-of-accounts entry. Import files
// whose name starts with FilePrefix are parsed with Format and post their
// cash side to AccountID.
type BankAccount struct {
	Name       string `yaml:"name" mapstructure:"name"`
	Type       string `yaml:"type" mapstructure:"type"`
	LastFour   string `yaml:"last_four,omitempty" mapstructure:"last_four"`
	AccountID  string `yaml:"account_id" mapstructure:"account_id"`
	Format     string `yaml:"format" mapstructure:"format"`
	FilePrefix string `yaml:"file_prefix" mapstructure:"file_prefix"`
}

// ThresholdsConfig controls auto-confirmation of generated entries.
type ThresholdsConfig struct {
	AutoConfirm float64 `yaml:"auto_confirm" mapstructure:"auto_confirm"`
	ReviewFlag  float64 `yaml:"review_flag" mapstructure:"review_flag"`
}

// JournalConfig binds the journal generator's account roles.
type JournalConfig struct {
	Accounts model.AccountRoles `yaml:"accounts" mapstructure:"accounts"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" mapstructure:"auto_commit"`
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// LogConfig sets the default log level and format.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads an autojournal.yaml file. Environment variables prefixed with
// AUTOJOURNAL_ override file values ("." in a key becomes "_").
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fiscal.year_start", "01-01")
	v.SetDefault("thresholds.auto_confirm", 0.95)
	v.SetDefault("thresholds.review_flag", 0.70)
	v.SetDefault("git.auto_commit", true)
	v.SetDefault("git.author_name", "Autojournal")
	v.SetDefault("git.author_email", "autojournal@cleared.dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	// Known so AUTOJOURNAL_JOURNAL_ACCOUNTS_* can override roles the file omits.
	for _, b := range (model.AccountRoles{}).Bindings() {
		v.SetDefault("journal.accounts."+b.Role, "")
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project: the
// default role mapping for entityType and a single Chase checking feed.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		BankAccounts: []BankAccount{
			{Name: "Business Checking", Type: "checking", AccountID: "1010", Format: "chase", FilePrefix: "chase"},
		},
		Thresholds: ThresholdsConfig{
			AutoConfirm: 0.95,
			ReviewFlag:  0.70,
		},
		Journal: JournalConfig{
			Accounts: accounts.DefaultRoles(entityType),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Autojournal",
			AuthorEmail: "autojournal@cleared.dev",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks value ranges and required fields.
func (c *Config) Validate() error {
	var errs []error

	if _, err := time.Parse("01-02", c.Fiscal.YearStart); err != nil {
		errs = append(errs, fmt.Errorf("fiscal.year_start %q is not MM-DD", c.Fiscal.YearStart))
	}
	if c.Thresholds.AutoConfirm < 0 || c.Thresholds.AutoConfirm > 1 {
		errs = append(errs, fmt.Errorf("thresholds.auto_confirm must be between 0 and 1, got %v", c.Thresholds.AutoConfirm))
	}
	if c.Thresholds.ReviewFlag < 0 || c.Thresholds.ReviewFlag > c.Thresholds.AutoConfirm {
		errs = append(errs, fmt.Errorf("thresholds.review_flag must be between 0 and auto_confirm, got %v", c.Thresholds.ReviewFlag))
	}
	if c.Journal.Accounts.Cash == "" {
		errs = append(errs, errors.New("journal.accounts.cash is required"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	prefixes := make(map[string]string)
	for i, ba := range c.BankAccounts {
		if ba.AccountID == "" || ba.Format == "" || ba.FilePrefix == "" {
			errs = append(errs, fmt.Errorf("bank_accounts[%d] (%s): account_id, format and file_prefix are required", i, ba.Name))
			continue
		}
		p := strings.ToLower(ba.FilePrefix)
		if other, dup := prefixes[p]; dup {
			errs = append(errs, fmt.Errorf("bank_accounts[%d] (%s): file_prefix %q already used by %s", i, ba.Name, ba.FilePrefix, other))
		}
		prefixes[p] = ba.Name
	}

	return errors.Join(errs...)
}

// BankAccountFor returns the feed whose file prefix matches fileName.
// The longest matching prefix wins; matching is case-insensitive.
func (c *Config) BankAccountFor(fileName string) (BankAccount, bool) {
	name := strings.ToLower(fileName)
	candidates := make([]BankAccount, 0, len(c.BankAccounts))
	for _, ba := range c.BankAccounts {
		if ba.FilePrefix != "" && strings.HasPrefix(name, strings.ToLower(ba.FilePrefix)) {
			candidates = append(candidates, ba)
		}
	}
	if len(candidates) == 0 {
		return BankAccount{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].FilePrefix) > len(candidates[j].FilePrefix)
	})
	return candidates[0], true
}

// Roles returns the role mapping for a feed: the configured roles with the
// feed's account standing in for cash.
func (c *Config) Roles(feed BankAccount) model.AccountRoles {
	roles := c.Journal.Accounts
	if feed.AccountID != "" {
		roles.Cash = feed.AccountID
	}
	return roles
}
