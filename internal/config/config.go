// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable viper consults.
const EnvPrefix = "PAGEHARNESS"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig

	// Browser Setters
	SetBrowserKind(kind string)
	SetBrowserHeadless(bool)
	SetBrowserTimeout(d time.Duration)
	SetBrowserDriversDir(dir string)
	SetBrowserOSName(name string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	BrowserCfg BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig { return c.BrowserCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserKind(kind string)        { c.BrowserCfg.Kind = kind }
func (c *Config) SetBrowserHeadless(b bool)         { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserTimeout(d time.Duration) { c.BrowserCfg.Timeout = d }
func (c *Config) SetBrowserDriversDir(dir string)   { c.BrowserCfg.DriversDir = dir }
func (c *Config) SetBrowserOSName(name string)      { c.BrowserCfg.OSName = name }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color used for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// WaitStrategy selects how element lookups wait for their target.
type WaitStrategy string

const (
	// WaitExplicit polls for a visible element until the timeout elapses.
	WaitExplicit WaitStrategy = "explicit"
	// WaitImplicit delegates waiting to the driver's implicit wait.
	WaitImplicit WaitStrategy = "implicit"
	// WaitBoth configures the implicit wait and also polls explicitly.
	WaitBoth WaitStrategy = "both"
)

// Valid reports whether s is one of the known strategies.
func (s WaitStrategy) Valid() bool {
	switch s {
	case WaitExplicit, WaitImplicit, WaitBoth:
		return true
	}
	return false
}

// BrowserConfig describes which browser to drive and how sessions wait.
type BrowserConfig struct {
	// Kind is the browser name, parsed by driver.ParseKind.
	Kind     string   `mapstructure:"kind" yaml:"kind"`
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	Args     []string `mapstructure:"args" yaml:"args"`
	// DriversDir is resolved against the working directory unless absolute.
	DriversDir string `mapstructure:"drivers_dir" yaml:"drivers_dir"`
	// OSName overrides the platform folder; empty means runtime.GOOS.
	OSName string `mapstructure:"os_name" yaml:"os_name"`
	// BinaryPath optionally points at the browser executable itself.
	BinaryPath string `mapstructure:"binary_path" yaml:"binary_path"`

	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	WaitStrategy    WaitStrategy  `mapstructure:"wait_strategy" yaml:"wait_strategy"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	StartupTimeout  time.Duration `mapstructure:"startup_timeout" yaml:"startup_timeout"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration key.
// Registering every key also makes it visible to AutomaticEnv lookups.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pageharness")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.kind", "chrome")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.args", []string{})
	v.SetDefault("browser.drivers_dir", "resources/drivers")
	v.SetDefault("browser.os_name", "")
	v.SetDefault("browser.binary_path", "")
	v.SetDefault("browser.timeout", "10s")
	v.SetDefault("browser.poll_interval", "500ms")
	v.SetDefault("browser.wait_strategy", string(WaitExplicit))
	v.SetDefault("browser.page_load_timeout", "60s")
	v.SetDefault("browser.startup_timeout", "30s")
}

// BindEnvironment wires PAGEHARNESS_* variables into v, mapping "." to "_"
// so that PAGEHARNESS_BROWSER_KIND overrides browser.kind.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.BrowserCfg.Validate(); err != nil {
		return fmt.Errorf("browser configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the browser settings. The browser kind itself is checked
// when a session is created so the error carries the driver taxonomy.
func (b *BrowserConfig) Validate() error {
	if strings.TrimSpace(b.Kind) == "" {
		return fmt.Errorf("browser.kind is required")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be a positive duration")
	}
	if b.PollInterval <= 0 {
		return fmt.Errorf("browser.poll_interval must be a positive duration")
	}
	if !b.WaitStrategy.Valid() {
		return fmt.Errorf("browser.wait_strategy %q must be one of explicit, implicit, both", b.WaitStrategy)
	}
	if b.PageLoadTimeout < 0 {
		return fmt.Errorf("browser.page_load_timeout must not be negative")
	}
	if b.StartupTimeout <= 0 {
		return fmt.Errorf("browser.startup_timeout must be a positive duration")
	}
	return nil
}
