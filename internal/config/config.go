package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/risk"
)

type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Account   AccountConfig   `mapstructure:"account"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Composer  ComposerConfig  `mapstructure:"composer"`
	Report    ReportConfig    `mapstructure:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// DataConfig locates the bar history.
type DataConfig struct {
	File     string `mapstructure:"file"`
	Symbol   string `mapstructure:"symbol"`
	Interval string `mapstructure:"interval"`
	Start    string `mapstructure:"start"` // RFC 3339 or YYYY-MM-DD, empty = unbounded
	End      string `mapstructure:"end"`
}

// AccountConfig sets the account and risk preset.
type AccountConfig struct {
	Balance float64 `mapstructure:"balance"`
	Profile string  `mapstructure:"profile"`

	// Optional per-field overrides on top of the preset. Zero values
	// keep the preset's numbers.
	HardCapPct      float64   `mapstructure:"hard_cap_pct"`
	ProfitTargetPct float64   `mapstructure:"profit_target_pct"`
	MinTradingDays  int       `mapstructure:"min_trading_days"`
	RiskTable       []float64 `mapstructure:"risk_table"`
}

// SimulatorConfig sets simulation mechanics.
type SimulatorConfig struct {
	StopATRMult      float64 `mapstructure:"stop_atr_mult"`
	TrailATRMult     float64 `mapstructure:"trail_atr_mult"`
	TakeProfitRR     float64 `mapstructure:"take_profit_rr"`
	ExitThreshold    int     `mapstructure:"exit_threshold"`
	SessionFilter    bool    `mapstructure:"session_filter"`
	SkipHourStart    int     `mapstructure:"skip_hour_start"`
	SkipHourEnd      int     `mapstructure:"skip_hour_end"`
	HourlyTradeLimit int     `mapstructure:"hourly_trade_limit"`

	RegimeWindow           int     `mapstructure:"regime_window"`
	RegimeHighThreshold    float64 `mapstructure:"regime_high_threshold"`
	RegimeExtremeThreshold float64 `mapstructure:"regime_extreme_threshold"`
}

// ComposerConfig sets signal scoring thresholds.
type ComposerConfig struct {
	RSIBullMin       float64 `mapstructure:"rsi_bull_min"`
	RSIBullMax       float64 `mapstructure:"rsi_bull_max"`
	RSIBearMin       float64 `mapstructure:"rsi_bear_min"`
	RSIBearMax       float64 `mapstructure:"rsi_bear_max"`
	ADXStrong        float64 `mapstructure:"adx_strong"`
	ADXGate          float64 `mapstructure:"adx_gate"`
	VolumeConfirm    float64 `mapstructure:"volume_confirm"`
	VolumeFloor      float64 `mapstructure:"volume_floor"`
	VolatilityFloor  float64 `mapstructure:"volatility_floor"`
	BandEdge         float64 `mapstructure:"band_edge"`
	BreakoutLookback int     `mapstructure:"breakout_lookback"`
}

// ReportConfig controls run outputs.
type ReportConfig struct {
	Dir     string `mapstructure:"dir"`
	Journal bool   `mapstructure:"journal"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			Symbol:   "BTCUSDT",
			Interval: "1h",
		},
		Account: AccountConfig{
			Balance: 10000,
			Profile: "moderate",
		},
		Simulator: SimulatorConfig{
			StopATRMult:            1.2,
			TrailATRMult:           0.8,
			TakeProfitRR:           2.5,
			ExitThreshold:          3,
			SessionFilter:          true,
			SkipHourStart:          2,
			SkipHourEnd:            6,
			HourlyTradeLimit:       3,
			RegimeWindow:           24,
			RegimeHighThreshold:    5.0,
			RegimeExtremeThreshold: 8.0,
		},
		Composer: ComposerConfig{
			RSIBullMin:       40,
			RSIBullMax:       80,
			RSIBearMin:       20,
			RSIBearMax:       60,
			ADXStrong:        25,
			ADXGate:          20,
			VolumeConfirm:    1.2,
			VolumeFloor:      0.8,
			VolatilityFloor:  0.7,
			BandEdge:         0.2,
			BreakoutLookback: 20,
		},
		Report: ReportConfig{
			Dir:     "./runs",
			Journal: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Data.File == "" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("data.file is required"))
	}
	if c.Account.Balance <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("account.balance must be positive, got %.2f", c.Account.Balance))
	}
	if _, err := risk.ProfileByName(c.Account.Profile); err != nil {
		return err
	}
	if _, err := c.window(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return nil
}

// Profile resolves the account's risk profile with overrides applied.
func (c *Config) Profile() (risk.Profile, error) {
	p, err := risk.ProfileByName(c.Account.Profile)
	if err != nil {
		return risk.Profile{}, err
	}
	if c.Account.HardCapPct > 0 {
		p.HardCapPct = c.Account.HardCapPct
	}
	if c.Account.ProfitTargetPct > 0 {
		p.ProfitTargetPct = c.Account.ProfitTargetPct
	}
	if c.Account.MinTradingDays > 0 {
		p.MinTradingDays = c.Account.MinTradingDays
	}
	if len(c.Account.RiskTable) > 0 {
		p.Table = risk.Table(c.Account.RiskTable)
	}
	if err := p.Validate(); err != nil {
		return risk.Profile{}, err
	}
	return p, nil
}

// Window parses the optional date range.
func (c *Config) Window() (start, end time.Time, err error) {
	w, err := c.window()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return w[0], w[1], nil
}

func (c *Config) window() ([2]time.Time, error) {
	var w [2]time.Time
	for i, s := range []string{c.Data.Start, c.Data.End} {
		if s == "" {
			continue
		}
		t, err := parseDate(s)
		if err != nil {
			return w, core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("bad date %q: %w", s, err))
		}
		w[i] = t
	}
	if !w[0].IsZero() && !w[1].IsZero() && !w[0].Before(w[1]) {
		return w, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("start %s is not before end %s", w[0], w[1]))
	}
	return w, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
