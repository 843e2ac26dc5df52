// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path/filepath"
	"strings"

	"github.com/iwvelando/property-pnl/internal/valuation"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/stampduty"
	"github.com/iwvelando/property-pnl/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for property-pnl.
type Configuration struct {
	Input     valuation.PurchaseInput `yaml:"input" mapstructure:"input"`
	Valuation ValuationConfig         `yaml:"valuation,omitempty" mapstructure:"valuation"`
	FX        FXConfig                `yaml:"fx,omitempty" mapstructure:"fx"`
	Logging   LoggingConfig           `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig            `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty" mapstructure:"format"`     // pretty, csv
	Language string `yaml:"language,omitempty" mapstructure:"language"` // en, zh
}

// ValuationConfig selects the calculation variants.
type ValuationConfig struct {
	LoanBasis                string       `yaml:"loanBasis,omitempty" mapstructure:"loanBasis"`             // listed, netNet
	StampDutyPolicy          string       `yaml:"stampDutyPolicy,omitempty" mapstructure:"stampDutyPolicy"` // tiered, flat
	FlatStampDutyRatePercent float64      `yaml:"flatStampDutyRatePercent,omitempty" mapstructure:"flatStampDutyRatePercent"`
	StampDutyTiers           []TierConfig `yaml:"stampDutyTiers,omitempty" mapstructure:"stampDutyTiers"` // replaces the standard tiered schedule
}

// TierConfig is one band of a custom stamp duty schedule. An UpTo of zero on
// the last band leaves it unbounded.
type TierConfig struct {
	UpTo        float64 `yaml:"upTo" mapstructure:"upTo"`
	RatePercent float64 `yaml:"ratePercent" mapstructure:"ratePercent"`
}

// FXConfig controls how the foreign currency rate is obtained.
type FXConfig struct {
	Base            string      `yaml:"base,omitempty" mapstructure:"base"`
	Quote           string      `yaml:"quote,omitempty" mapstructure:"quote"`
	DefaultRate     float64     `yaml:"defaultRate,omitempty" mapstructure:"defaultRate"`
	ManualRate      float64     `yaml:"manualRate,omitempty" mapstructure:"manualRate"`
	Endpoint        string      `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	AccessKey       string      `yaml:"accessKey,omitempty" mapstructure:"accessKey"`
	TimeoutSeconds  int         `yaml:"timeoutSeconds,omitempty" mapstructure:"timeoutSeconds"`
	CacheTTLMinutes int         `yaml:"cacheTTLMinutes,omitempty" mapstructure:"cacheTTLMinutes"`
	Redis           RedisConfig `yaml:"redis,omitempty" mapstructure:"redis"`
}

// RedisConfig enables the shared rate cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the config is loaded first, and
// PROPERTY_PNL_* environment variables override file values. An empty path
// returns the defaults with environment overrides applied.
func LoadConfiguration(configPath string) (*Configuration, error) {
	dir := "."
	if configPath != "" {
		dir = filepath.Dir(configPath)
	}
	if err := LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader parses YAML from r on top of the defaults.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// LoadDotEnv loads KEY=value pairs into the process environment. Variables
// already set are left alone and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading env file %s, %w", path, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.FX.Base = strings.ToUpper(configuration.FX.Base)
	configuration.FX.Quote = strings.ToUpper(configuration.FX.Quote)
	return &configuration, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys the
// file does not mention. Input defaults are the figures of a typical listing.
func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"input.listedPrice":                 800000.0,
		"input.discountPercent1":            10.0,
		"input.discountPercent2":            5.0,
		"input.fixedDiscount":               0.0,
		"input.depositPaid":                 10000.0,
		"input.loanRatioPercent":            70.0,
		"input.annualInterestRatePercent":   5.0,
		"input.loanTermYears":               25,
		"input.propertySizeUnits":           0.0,
		"input.serviceFeeRatePerUnit":       0.0,
		"input.upfrontCosts.stampDuty":      0.0,
		"input.upfrontCosts.consentFee":     1000.0,
		"input.upfrontCosts.legalFee":       3000.0,
		"input.upfrontCosts.minBankBalance": 5000.0,
		"input.upfrontCosts.cashCushion":    10000.0,
		"input.upfrontCosts.renovationCost": 15000.0,
		"input.rental.nightlyRate":          150.0,
		"input.rental.utilisationPercent":   60.0,
		"input.rental.managementFeeMonthly": 500.0,
		"input.foreignCurrencyRate":         0.0,

		"valuation.loanBasis":                constants.LoanBasisNetNet,
		"valuation.stampDutyPolicy":          constants.StampDutyPolicyTiered,
		"valuation.flatStampDutyRatePercent": constants.DefaultFlatStampDutyPercent,

		"fx.base":            constants.DefaultForeignCurrency,
		"fx.quote":           constants.HomeCurrency,
		"fx.defaultRate":     constants.DefaultFallbackRate,
		"fx.manualRate":      0.0,
		"fx.endpoint":        constants.DefaultRateEndpoint,
		"fx.accessKey":       "",
		"fx.timeoutSeconds":  constants.DefaultRateTimeoutSeconds,
		"fx.cacheTTLMinutes": constants.DefaultRateCacheTTLMinutes,
		"fx.redis.addr":      "",
		"fx.redis.password":  "",
		"fx.redis.db":        0,

		"logging.level":      "info",
		"logging.format":     "json",
		"logging.outputFile": "",

		"output.format":   constants.OutputFormatPretty,
		"output.language": constants.LanguageEnglish,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Options builds the valuation options named by the configuration.
func (c *Configuration) Options() (valuation.Options, error) {
	policy, err := c.Valuation.stampDutyPolicy()
	if err != nil {
		return valuation.Options{}, err
	}
	opts := valuation.Options{
		LoanBasis:       c.Valuation.LoanBasis,
		StampDutyPolicy: policy,
	}
	if err := opts.Validate(); err != nil {
		return valuation.Options{}, err
	}
	return opts, nil
}

// stampDutyPolicy resolves the named policy, substituting the custom tier
// schedule when one is configured for the tiered policy.
func (v ValuationConfig) stampDutyPolicy() (stampduty.Policy, error) {
	policy, err := stampduty.ByName(v.StampDutyPolicy, v.FlatStampDutyRatePercent)
	if err != nil {
		return nil, err
	}
	if len(v.StampDutyTiers) == 0 || policy.Name() != constants.StampDutyPolicyTiered {
		return policy, nil
	}

	tiers := make([]stampduty.Tier, len(v.StampDutyTiers))
	for i, tier := range v.StampDutyTiers {
		tiers[i] = stampduty.Tier{UpTo: tier.UpTo, RatePercent: tier.RatePercent}
	}
	if last := &tiers[len(tiers)-1]; last.UpTo == 0 {
		last.UpTo = math.Inf(1)
	}

	tiered, err := stampduty.NewTiered(tiers)
	if err != nil {
		return nil, fmt.Errorf("valuation.stampDutyTiers: %w", err)
	}
	return tiered, nil
}

// Validate rejects settings the application cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateLanguage(c.Output.Language); err != nil {
		return err
	}
	if err := validation.ValidateLoanBasis(c.Valuation.LoanBasis); err != nil {
		return err
	}
	if err := validation.ValidateStampDutyPolicy(c.Valuation.StampDutyPolicy, c.Valuation.FlatStampDutyRatePercent); err != nil {
		return err
	}
	if _, err := c.Valuation.stampDutyPolicy(); err != nil {
		return err
	}
	if err := validation.ValidateCurrencyCode(c.FX.Base); err != nil {
		return fmt.Errorf("fx.base: %w", err)
	}
	if err := validation.ValidateCurrencyCode(c.FX.Quote); err != nil {
		return fmt.Errorf("fx.quote: %w", err)
	}
	if c.FX.DefaultRate <= 0 {
		return fmt.Errorf("fx.defaultRate must be greater than zero, got %v", c.FX.DefaultRate)
	}
	if c.FX.ManualRate < 0 {
		return fmt.Errorf("fx.manualRate must not be negative, got %v", c.FX.ManualRate)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := &validation.InputValidator{
		Input:     c.Input,
		LoanBasis: c.Valuation.LoanBasis,
	}
	warnings := validator.ValidateAll()

	if c.FX.Quote != constants.HomeCurrency {
		warnings = append(warnings, fmt.Sprintf("fx.quote is %s but amounts are entered in %s",
			c.FX.Quote, constants.HomeCurrency))
	}
	if c.Input.UpfrontCosts.StampDuty > 0 {
		warnings = append(warnings, fmt.Sprintf("stamp duty is fixed at %.2f; the %s policy is ignored",
			c.Input.UpfrontCosts.StampDuty, c.Valuation.StampDutyPolicy))
	}
	if c.FX.AccessKey == "" && c.FX.ManualRate == 0 {
		warnings = append(warnings, "no fx.accessKey configured; live rate lookups may be rejected")
	}

	return warnings
}
