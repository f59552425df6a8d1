package marketdata

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"macrostudy/pkg/confkit"
)

// Config describes the market-data providers available to the application.
type Config struct {
	Default   string                     `yaml:"default"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures a single market-data provider.
type ProviderConfig struct {
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url"`

	// Symbols is the asset universe the provider serves, in the source's
	// native notation (e.g. SPY.US, GLD.US, EURUSD for stooq).
	Symbols []string `yaml:"symbols"`

	// Start bounds the history fetched, formatted 2006-01-02. Optional.
	Start string `yaml:"start"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// StartDate parses the configured history start, zero when unset.
func (p *ProviderConfig) StartDate() (time.Time, error) {
	if strings.TrimSpace(p.Start) == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", p.Start, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("market config: invalid start %q: %w", p.Start, err)
	}
	return t, nil
}

// ProviderBuilder constructs a Provider from configuration.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	providerRegistry   = make(map[string]ProviderBuilder)
	providerRegistryMu sync.RWMutex
)

// RegisterProvider registers a market-data provider constructor.
func RegisterProvider(typeName string, builder ProviderBuilder) {
	providerRegistryMu.Lock()
	defer providerRegistryMu.Unlock()
	providerRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupProviderBuilder(typeName string) (ProviderBuilder, bool) {
	providerRegistryMu.RLock()
	defer providerRegistryMu.RUnlock()
	builder, ok := providerRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads market-data provider configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read market config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal market config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.Type = strings.TrimSpace(os.ExpandEnv(provider.Type))
		provider.BaseURL = strings.TrimSpace(os.ExpandEnv(provider.BaseURL))
		provider.Start = strings.TrimSpace(os.ExpandEnv(provider.Start))
		provider.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(provider.TimeoutRaw))
		for i, sym := range provider.Symbols {
			provider.Symbols[i] = strings.TrimSpace(sym)
		}
		if provider.TimeoutRaw != "" {
			d, err := time.ParseDuration(provider.TimeoutRaw)
			if err != nil {
				return fmt.Errorf("market provider %s: invalid timeout %q: %w", name, provider.TimeoutRaw, err)
			}
			if d <= 0 {
				return fmt.Errorf("market provider %s: timeout must be positive, got %s", name, d)
			}
			provider.Timeout = d
		}
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("market config: providers cannot be empty")
	}
	if c.Default != "" {
		if _, ok := c.Providers[c.Default]; !ok {
			return fmt.Errorf("market config: default provider %q not defined", c.Default)
		}
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("market config: provider name cannot be empty")
		}
		if strings.TrimSpace(provider.Type) == "" {
			return fmt.Errorf("market config: provider %s must specify type", name)
		}
		if _, ok := lookupProviderBuilder(provider.Type); !ok {
			return fmt.Errorf("market config: provider %s has unsupported type %q", name, provider.Type)
		}
		if _, err := provider.StartDate(); err != nil {
			return err
		}
	}
	return nil
}

// BuildProviders instantiates market-data providers according to configuration.
func (c *Config) BuildProviders() (map[string]Provider, error) {
	result := make(map[string]Provider, len(c.Providers))
	for name, providerCfg := range c.Providers {
		builder, ok := lookupProviderBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("market provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("market provider %s: %w", name, err)
		}
		result[name] = provider
	}
	return result, nil
}

// DefaultProvider returns the configured default, falling back to the sole
// provider when only one is defined.
func (c *Config) DefaultProvider(providers map[string]Provider) (Provider, error) {
	if c.Default != "" {
		p, ok := providers[c.Default]
		if !ok {
			return nil, fmt.Errorf("market config: default provider %q not built", c.Default)
		}
		return p, nil
	}
	if len(providers) == 1 {
		for _, p := range providers {
			return p, nil
		}
	}
	return nil, fmt.Errorf("market config: no default provider configured")
}
