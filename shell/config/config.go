package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LENDING_"

// ErrInvalidConfig is joined with every validation problem.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Library       LibraryPolicy       `yaml:"library" envPrefix:"LIBRARY_"`
	Observability ObservabilityConfig `yaml:"observability" envPrefix:"OBSERVABILITY_"`
}

// LibraryPolicy is the lending policy of a library. Amounts are decimal strings in Currency.
type LibraryPolicy struct {
	DefaultLoanDays          int           `yaml:"default_loan_days" env:"DEFAULT_LOAN_DAYS"`
	MaxFinesBeforeSuspension string        `yaml:"max_fines_before_suspension" env:"MAX_FINES_BEFORE_SUSPENSION"`
	Currency                 string        `yaml:"currency" env:"CURRENCY"`
	WaitingListType          string        `yaml:"waiting_list_type" env:"WAITING_LIST_TYPE"`
	DailyOverdueCharge       string        `yaml:"daily_overdue_charge" env:"DAILY_OVERDUE_CHARGE"`
	DamagedItemCharge        string        `yaml:"damaged_item_charge" env:"DAMAGED_ITEM_CHARGE"`
	BorrowRequestCooldown    time.Duration `yaml:"borrow_request_cooldown" env:"BORROW_REQUEST_COOLDOWN"`
}

// ObservabilityConfig switches the OpenTelemetry adapters on and off.
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name" env:"SERVICE_NAME"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	TracingEnabled bool   `yaml:"tracing_enabled" env:"TRACING_ENABLED"`
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
}

// DefaultLibraryPolicy lends for 14 days, suspends at 100 USD of fines, queues first come first serve
// and charges nothing.
func DefaultLibraryPolicy() LibraryPolicy {
	return LibraryPolicy{
		DefaultLoanDays:          14,
		MaxFinesBeforeSuspension: "100",
		Currency:                 string(lending.USD),
		WaitingListType:          string(lending.WaitingListFirstComeFirstServe),
		DailyOverdueCharge:       "0",
		BorrowRequestCooldown:    time.Hour,
	}
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Library: DefaultLibraryPolicy(),
		Observability: ObservabilityConfig{
			ServiceName:    "lending",
			LogLevel:       "info",
			TracingEnabled: true,
			MetricsEnabled: true,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path is empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	errs := c.Library.problems()

	if _, err := c.Observability.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Observability.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

func (p LibraryPolicy) problems() []error {
	var errs []error

	if p.DefaultLoanDays < 1 {
		errs = append(errs, fmt.Errorf("default loan days must be at least 1, got %d", p.DefaultLoanDays))
	}

	if _, err := lending.ParseCurrency(p.Currency); err != nil {
		errs = append(errs, err)
	}

	if _, err := lending.NewWaitingList(lending.WaitingListType(p.WaitingListType), nil); err != nil {
		errs = append(errs, err)
	}

	amounts := []struct {
		name     string
		value    string
		optional bool
	}{
		{"max fines before suspension", p.MaxFinesBeforeSuspension, false},
		{"daily overdue charge", p.DailyOverdueCharge, false},
		{"damaged item charge", p.DamagedItemCharge, true},
	}
	for _, a := range amounts {
		if a.value == "" && a.optional {
			continue
		}

		amount, err := decimal.NewFromString(a.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q is not a decimal", a.name, a.value))
			continue
		}

		if amount.IsNegative() {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", a.name, a.value))
		}
	}

	if p.BorrowRequestCooldown < 0 {
		errs = append(errs, fmt.Errorf("borrow request cooldown must not be negative, got %s", p.BorrowRequestCooldown))
	}

	return errs
}

// LibraryConfig turns the policy into a lending.LibraryConfig for the library id and name.
// A policy that charges nothing gets a NoFeeSchedule.
func (p LibraryPolicy) LibraryConfig(id lending.ID, name string) (lending.LibraryConfig, error) {
	if errs := p.problems(); len(errs) > 0 {
		return lending.LibraryConfig{}, errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	currency := lending.Currency(p.Currency)

	maxFines, err := lending.MoneyFromString(p.MaxFinesBeforeSuspension, currency)
	if err != nil {
		return lending.LibraryConfig{}, err
	}

	schedule, err := p.feeSchedule(currency)
	if err != nil {
		return lending.LibraryConfig{}, err
	}

	return lending.LibraryConfig{
		ID:                       id,
		Name:                     name,
		WaitingListType:          lending.WaitingListType(p.WaitingListType),
		MaxFinesBeforeSuspension: maxFines,
		FeeSchedule:              schedule,
		DefaultLoanDays:          p.DefaultLoanDays,
	}, nil
}

func (p LibraryPolicy) feeSchedule(currency lending.Currency) (lending.FeeSchedule, error) {
	daily, err := lending.MoneyFromString(p.DailyOverdueCharge, currency)
	if err != nil {
		return nil, err
	}

	if p.DamagedItemCharge == "" {
		if daily.IsZero() {
			return lending.NoFeeSchedule{Currency: currency}, nil
		}

		return lending.PerDayFeeSchedule{DailyCharge: daily}, nil
	}

	damage, err := lending.MoneyFromString(p.DamagedItemCharge, currency)
	if err != nil {
		return nil, err
	}

	return lending.PerDayFeeSchedule{DailyCharge: daily, DamageCharge: &damage}, nil
}

// SlogLevel parses LogLevel (debug, info, warn or error).
func (o ObservabilityConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", o.LogLevel, err)
	}

	return level, nil
}
