package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cashcast-dev/cashcast/internal/model"
)

// DateFormat is the calendar-date layout used in cashcast.yaml.
const DateFormat = "2006-01-02"

// Amount is a decimal YAML scalar. yaml.v3 does not go through
// encoding.TextUnmarshaler, so the wrapper does the conversion itself.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal for use in a Config literal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// UnmarshalYAML parses a YAML scalar into a decimal.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", value.Value, err)
	}
	a.Decimal = d
	return nil
}

// MarshalYAML emits the decimal as a plain scalar, unquoted.
func (a Amount) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: a.Decimal.String()}, nil
}

// Config represents the top-level cashcast.yaml configuration.
type Config struct {
	Accounts     []AccountConfig     `yaml:"accounts"`
	MonthlyFlows []MonthlyFlowConfig `yaml:"monthly_flows,omitempty"`
	DailyFlows   []DailyFlowConfig   `yaml:"daily_flows,omitempty"`
	OneOffFlows  []OneOffFlowConfig  `yaml:"one_off_flows,omitempty"`
	Simulation   SimulationConfig    `yaml:"simulation"`
	DataFile     string              `yaml:"data_file"`
	HistoryDB    string              `yaml:"history_db,omitempty"`
	Git          GitConfig           `yaml:"git"`
}

// AccountConfig declares one interest-bearing account.
type AccountConfig struct {
	Name           string `yaml:"name"`
	OpeningBalance Amount `yaml:"opening_balance"`
	InterestRate   Amount `yaml:"interest_rate"`
	AccrualPolicy  string `yaml:"accrual_policy"`
}

// MonthlyFlowConfig fires on a fixed day of every month.
type MonthlyFlowConfig struct {
	Name       string `yaml:"name"`
	Amount     Amount `yaml:"amount"`
	DayOfMonth int    `yaml:"day_of_month"`
}

// DailyFlowConfig fires every day.
type DailyFlowConfig struct {
	Name   string `yaml:"name"`
	Amount Amount `yaml:"amount"`
}

// OneOffFlowConfig fires once, on an exact date ("YYYY-MM-DD").
type OneOffFlowConfig struct {
	Name   string `yaml:"name"`
	Amount Amount `yaml:"amount"`
	Date   string `yaml:"date"`
}

// SimulationConfig controls the date range and stopping rules.
type SimulationConfig struct {
	// TargetYear is the year whose Dec 31 bounds the run. Zero means
	// prompt interactively.
	TargetYear int `yaml:"target_year,omitempty"`
	// StopMonth truncates the run once the cursor enters this calendar
	// month (1-12). Zero disables the rule.
	StopMonth int `yaml:"stop_month,omitempty"`
	// StopWhenBroke halts the run once the running total is exhausted.
	StopWhenBroke bool `yaml:"stop_when_broke,omitempty"`
}

// GitConfig controls auto-committing the exported document.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a cashcast.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
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

// Default returns a starter Config with two example accounts.
func Default() *Config {
	return &Config{
		Accounts: []AccountConfig{
			{Name: "BOK", OpeningBalance: NewAmount(decimal.NewFromInt(5000)), InterestRate: NewAmount(decimal.NewFromFloat(0.001)), AccrualPolicy: string(model.AccrualSimple)},
			{Name: "CO", OpeningBalance: NewAmount(decimal.NewFromInt(3000)), InterestRate: NewAmount(decimal.NewFromFloat(0.036)), AccrualPolicy: string(model.AccrualCompound)},
		},
		DataFile: "financial_data.json",
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Cashcast",
			AuthorEmail: "cashcast@localhost",
		},
	}
}

// Validate checks the configuration. Unknown accrual policies fail here,
// before a simulation ever starts, naming the offending account.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("account with empty name")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate account name %q", a.Name)
		}
		seen[a.Name] = true
		if !model.AccrualPolicy(a.AccrualPolicy).Valid() {
			return fmt.Errorf("account %q: unknown accrual policy %q", a.Name, a.AccrualPolicy)
		}
	}

	for _, f := range c.MonthlyFlows {
		if f.DayOfMonth < 1 || f.DayOfMonth > 31 {
			return fmt.Errorf("monthly flow %q: day_of_month %d outside 1..31", f.Name, f.DayOfMonth)
		}
	}

	for _, f := range c.OneOffFlows {
		if _, err := time.Parse(DateFormat, f.Date); err != nil {
			return fmt.Errorf("one-off flow %q: invalid date %q: %w", f.Name, f.Date, err)
		}
	}

	if m := c.Simulation.StopMonth; m != 0 && (m < 1 || m > 12) {
		return fmt.Errorf("simulation: stop_month %d outside 1..12", m)
	}

	return nil
}

// BuildAccounts constructs fresh account values. Each call returns new
// instances, so a config can drive any number of independent runs.
func (c *Config) BuildAccounts() []*model.Account {
	accounts := make([]*model.Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		accounts = append(accounts, model.NewAccount(a.Name, a.OpeningBalance.Decimal, a.InterestRate.Decimal, model.AccrualPolicy(a.AccrualPolicy)))
	}
	return accounts
}

// BuildFlows converts the three flow collections to model values. Call
// Validate first; an unparseable one-off date is an error here too.
func (c *Config) BuildFlows() (monthly []model.MonthlyFlow, daily []model.DailyFlow, oneOff []model.OneOffFlow, err error) {
	for _, f := range c.MonthlyFlows {
		monthly = append(monthly, model.MonthlyFlow{Name: f.Name, Amount: f.Amount.Decimal, DayOfMonth: f.DayOfMonth})
	}
	for _, f := range c.DailyFlows {
		daily = append(daily, model.DailyFlow{Name: f.Name, Amount: f.Amount.Decimal})
	}
	for _, f := range c.OneOffFlows {
		date, perr := time.Parse(DateFormat, f.Date)
		if perr != nil {
			return nil, nil, nil, fmt.Errorf("one-off flow %q: invalid date %q: %w", f.Name, f.Date, perr)
		}
		oneOff = append(oneOff, model.OneOffFlow{Name: f.Name, Amount: f.Amount.Decimal, Date: date})
	}
	return monthly, daily, oneOff, nil
}
