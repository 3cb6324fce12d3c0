package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell/config"
)

func Test_Load_Success_WithDefaultsOnly(t *testing.T) {
	// act
	cfg, err := config.Load("")

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Equal(t, time.Hour, cfg.Library.BorrowRequestCooldown)
}

func Test_Load_Success_YAMLThenEnvironment(t *testing.T) {
	// arrange
	path := givenConfigFile(t, `
library:
  default_loan_days: 21
  currency: EUR
  daily_overdue_charge: "0.50"
  borrow_request_cooldown: 30m
observability:
  service_name: tool-library
  log_level: debug
`)
	t.Setenv("LENDING_LIBRARY_DEFAULT_LOAN_DAYS", "7")
	t.Setenv("LENDING_OBSERVABILITY_TRACING_ENABLED", "false")

	// act
	cfg, err := config.Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Library.DefaultLoanDays, "environment wins over the file")
	assert.Equal(t, "EUR", cfg.Library.Currency)
	assert.Equal(t, "0.50", cfg.Library.DailyOverdueCharge)
	assert.Equal(t, 30*time.Minute, cfg.Library.BorrowRequestCooldown)
	assert.Equal(t, "100", cfg.Library.MaxFinesBeforeSuspension, "defaults survive a partial file")
	assert.Equal(t, "tool-library", cfg.Observability.ServiceName)
	assert.False(t, cfg.Observability.TracingEnabled)
	level, err := cfg.Observability.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func Test_Load_Error_JoinsEveryProblem(t *testing.T) {
	// arrange
	path := givenConfigFile(t, `
library:
  default_loan_days: 0
  currency: GBP
  waiting_list_type: LOTTERY
  daily_overdue_charge: "-1"
observability:
  log_level: loud
`)

	// act
	_, err := config.Load(path)

	// assert
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.ErrorIs(t, err, lending.ErrUnknownCurrency)
	assert.ErrorIs(t, err, lending.ErrUnknownWaitingListType)
	assert.ErrorContains(t, err, "default loan days must be at least 1, got 0")
	assert.ErrorContains(t, err, "daily overdue charge must not be negative")
	assert.ErrorContains(t, err, `log level "loud"`)
}

func Test_Load_Error_WhenFileIsMissingOrBroken(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(givenConfigFile(t, "library: [unclosed"))
	assert.ErrorContains(t, err, "parse config file")
}

func Test_LibraryPolicy_LibraryConfig_Defaults(t *testing.T) {
	// arrange
	id := lending.NewID()

	// act
	libraryConfig, err := config.DefaultLibraryPolicy().LibraryConfig(id, "Tool Library")

	// assert
	require.NoError(t, err)
	require.NoError(t, libraryConfig.Validate())
	assert.Equal(t, 14, libraryConfig.DefaultLoanDays)
	assert.Equal(t, lending.WaitingListFirstComeFirstServe, libraryConfig.WaitingListType)
	assert.True(t, libraryConfig.MaxFinesBeforeSuspension.Equal(lending.MustMoney("100", lending.USD)))
	assert.Equal(t, lending.NoFeeSchedule{Currency: lending.USD}, libraryConfig.FeeSchedule)
}

func Test_LibraryPolicy_LibraryConfig_WithCharges(t *testing.T) {
	// arrange
	policy := config.DefaultLibraryPolicy()
	policy.DailyOverdueCharge = "1"
	policy.DamagedItemCharge = "25"

	// act
	libraryConfig, err := policy.LibraryConfig(lending.NewID(), "Tool Library")

	// assert
	require.NoError(t, err)
	schedule, ok := libraryConfig.FeeSchedule.(lending.PerDayFeeSchedule)
	require.True(t, ok)
	assert.True(t, schedule.DailyCharge.Equal(lending.MustMoney("1", lending.USD)))
	require.NotNil(t, schedule.DamageCharge)
	assert.True(t, schedule.DamageCharge.Equal(lending.MustMoney("25", lending.USD)))
}

func givenConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lending.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}
