// Package config provides configuration loading for recon.
// It supports a layered configuration approach with priority:
// CLI flags > environment variables (RECON_*) > config file (~/.recon.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/scanner/risk"
	"github.com/buemura/recon/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RiskConfig is the tunable part of the risk rule table.
type RiskConfig struct {
	CategoriesPerTier   int    `mapstructure:"categories_per_tier" yaml:"categories_per_tier"`
	DisclosureTier      string `mapstructure:"disclosure_tier" yaml:"disclosure_tier"`
	UnexpectedPortTier  string `mapstructure:"unexpected_port_tier" yaml:"unexpected_port_tier"`
	HighRiskPortTier    string `mapstructure:"high_risk_port_tier" yaml:"high_risk_port_tier"`
	HighRiskPorts       []int  `mapstructure:"high_risk_ports" yaml:"high_risk_ports"`
	ExpectedPorts       []int  `mapstructure:"expected_ports" yaml:"expected_ports"`
	SensitiveRobotsTier string `mapstructure:"sensitive_robots_tier" yaml:"sensitive_robots_tier"`
}

// Config holds all recon configuration options.
type Config struct {
	DefaultTarget string `mapstructure:"default_target" yaml:"default_target"`
	OutputFormat  string `mapstructure:"output_format" yaml:"output_format"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	ListenAddr    string `mapstructure:"listen_addr" yaml:"listen_addr"`

	ScanTimeout        time.Duration `mapstructure:"scan_timeout" yaml:"scan_timeout"`
	DNSTimeout         time.Duration `mapstructure:"dns_timeout" yaml:"dns_timeout"`
	HTTPTimeout        time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	MaxRedirects       int           `mapstructure:"max_redirects" yaml:"max_redirects"`
	PortTimeout        time.Duration `mapstructure:"port_timeout" yaml:"port_timeout"`
	PortConcurrency    int           `mapstructure:"port_concurrency" yaml:"port_concurrency"`
	PortRate           float64       `mapstructure:"port_rate" yaml:"port_rate"`
	RobotsTimeout      time.Duration `mapstructure:"robots_timeout" yaml:"robots_timeout"`
	RobotsPreviewLines int           `mapstructure:"robots_preview_lines" yaml:"robots_preview_lines"`
	RobotsLineLength   int           `mapstructure:"robots_line_length" yaml:"robots_line_length"`
	UserAgent          string        `mapstructure:"user_agent" yaml:"user_agent"`

	Risk RiskConfig `mapstructure:"risk" yaml:"risk"`
}

// Defaults returns a Config populated with default values.
func Defaults() Config {
	opts := scanner.DefaultOptions()
	p := opts.Policy
	return Config{
		OutputFormat:       "table",
		LogLevel:           "info",
		ListenAddr:         ":8000",
		ScanTimeout:        opts.ScanTimeout,
		DNSTimeout:         opts.DNSTimeout,
		HTTPTimeout:        opts.HTTPTimeout,
		MaxRedirects:       opts.MaxRedirects,
		PortTimeout:        opts.PortTimeout,
		PortConcurrency:    opts.PortConcurrency,
		PortRate:           opts.PortRate,
		RobotsTimeout:      opts.RobotsTimeout,
		RobotsPreviewLines: opts.RobotsPreviewLines,
		RobotsLineLength:   opts.RobotsLineLength,
		UserAgent:          opts.UserAgent,
		Risk: RiskConfig{
			CategoriesPerTier:   p.CategoriesPerTier,
			DisclosureTier:      string(p.DisclosureTier),
			UnexpectedPortTier:  string(p.UnexpectedPortTier),
			HighRiskPortTier:    string(p.HighRiskPortTier),
			HighRiskPorts:       append([]int(nil), p.HighRiskPorts...),
			ExpectedPorts:       append([]int(nil), p.ExpectedPorts...),
			SensitiveRobotsTier: string(p.SensitiveRobotsTier),
		},
	}
}

// Load reads configuration from ~/.recon.yaml and environment variables.
// It does NOT apply CLI flag overrides; call ApplyFlags for that.
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName(".recon")
	v.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// ApplyFlags overrides config values with any CLI flags that were explicitly set.
func ApplyFlags(cfg *Config, cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("target") {
		val, _ := flags.GetString("target")
		cfg.DefaultTarget = val
	}
	if flags.Changed("output") {
		val, _ := flags.GetString("output")
		cfg.OutputFormat = val
	}
	if flags.Changed("timeout") {
		val, _ := flags.GetDuration("timeout")
		cfg.ScanTimeout = val
	}
	if flags.Changed("verbose") {
		if val, _ := flags.GetBool("verbose"); val {
			cfg.LogLevel = "debug"
		}
	}
	if flags.Changed("log-level") {
		val, _ := flags.GetString("log-level")
		cfg.LogLevel = val
	}
	if flags.Changed("addr") {
		val, _ := flags.GetString("addr")
		cfg.ListenAddr = val
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	durations := []struct {
		key string
		val time.Duration
	}{
		{"scan_timeout", c.ScanTimeout},
		{"dns_timeout", c.DNSTimeout},
		{"http_timeout", c.HTTPTimeout},
		{"port_timeout", c.PortTimeout},
		{"robots_timeout", c.RobotsTimeout},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.val)
		}
	}
	ints := []struct {
		key string
		val int
	}{
		{"max_redirects", c.MaxRedirects},
		{"port_concurrency", c.PortConcurrency},
		{"robots_preview_lines", c.RobotsPreviewLines},
		{"robots_line_length", c.RobotsLineLength},
	}
	for _, n := range ints {
		if n.val < 0 {
			return fmt.Errorf("%s cannot be negative, got %d", n.key, n.val)
		}
	}
	if c.PortRate < 0 {
		return fmt.Errorf("port_rate cannot be negative, got %g", c.PortRate)
	}

	policy, err := c.Policy()
	if err != nil {
		return err
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	return nil
}

// Policy builds the risk rule table from the risk.* settings.
func (c *Config) Policy() (risk.Policy, error) {
	p := risk.DefaultPolicy()
	p.CategoriesPerTier = c.Risk.CategoriesPerTier
	p.HighRiskPorts = append([]int(nil), c.Risk.HighRiskPorts...)
	p.ExpectedPorts = append([]int(nil), c.Risk.ExpectedPorts...)

	tiers := []struct {
		key string
		raw string
		dst *types.Risk
	}{
		{"risk.disclosure_tier", c.Risk.DisclosureTier, &p.DisclosureTier},
		{"risk.unexpected_port_tier", c.Risk.UnexpectedPortTier, &p.UnexpectedPortTier},
		{"risk.high_risk_port_tier", c.Risk.HighRiskPortTier, &p.HighRiskPortTier},
		{"risk.sensitive_robots_tier", c.Risk.SensitiveRobotsTier, &p.SensitiveRobotsTier},
	}
	for _, tier := range tiers {
		r, err := types.ParseRisk(tier.raw)
		if err != nil {
			return risk.Policy{}, fmt.Errorf("%s: %w", tier.key, err)
		}
		*tier.dst = r
	}
	return p, nil
}

// ScanOptions maps the configuration onto engine options.
func (c *Config) ScanOptions() (scanner.Options, error) {
	policy, err := c.Policy()
	if err != nil {
		return scanner.Options{}, err
	}
	return scanner.Options{
		ScanTimeout:        c.ScanTimeout,
		DNSTimeout:         c.DNSTimeout,
		HTTPTimeout:        c.HTTPTimeout,
		MaxRedirects:       c.MaxRedirects,
		UserAgent:          c.UserAgent,
		PortTimeout:        c.PortTimeout,
		PortConcurrency:    c.PortConcurrency,
		PortRate:           c.PortRate,
		RobotsTimeout:      c.RobotsTimeout,
		RobotsPreviewLines: c.RobotsPreviewLines,
		RobotsLineLength:   c.RobotsLineLength,
		Policy:             policy,
	}, nil
}

// ConfigFilePath returns the default config file path (~/.recon.yaml).
func ConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recon.yaml"
	}
	return filepath.Join(home, ".recon.yaml")
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("default_target", d.DefaultTarget)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("scan_timeout", d.ScanTimeout)
	v.SetDefault("dns_timeout", d.DNSTimeout)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("max_redirects", d.MaxRedirects)
	v.SetDefault("port_timeout", d.PortTimeout)
	v.SetDefault("port_concurrency", d.PortConcurrency)
	v.SetDefault("port_rate", d.PortRate)
	v.SetDefault("robots_timeout", d.RobotsTimeout)
	v.SetDefault("robots_preview_lines", d.RobotsPreviewLines)
	v.SetDefault("robots_line_length", d.RobotsLineLength)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("risk.categories_per_tier", d.Risk.CategoriesPerTier)
	v.SetDefault("risk.disclosure_tier", d.Risk.DisclosureTier)
	v.SetDefault("risk.unexpected_port_tier", d.Risk.UnexpectedPortTier)
	v.SetDefault("risk.high_risk_port_tier", d.Risk.HighRiskPortTier)
	v.SetDefault("risk.high_risk_ports", d.Risk.HighRiskPorts)
	v.SetDefault("risk.expected_ports", d.Risk.ExpectedPorts)
	v.SetDefault("risk.sensitive_robots_tier", d.Risk.SensitiveRobotsTier)
}
