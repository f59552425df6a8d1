package calendar

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

// Config describes the calendar providers available to the application.
type Config struct {
	Default   string                     `yaml:"default"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures a single calendar provider.
type ProviderConfig struct {
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url"`

	// Series maps event types to source series identifiers,
	// e.g. CPI: CPIAUCSL, NFP: PAYEMS for the FRED provider.
	Series map[string]string `yaml:"series"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// ProviderBuilder constructs a Provider from configuration.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	providerRegistry   = make(map[string]ProviderBuilder)
	providerRegistryMu sync.RWMutex
)

// RegisterProvider registers a calendar provider constructor.
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

// LoadConfig reads calendar provider configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read calendar config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal calendar config: %w", err)
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
		provider.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(provider.TimeoutRaw))
		if provider.TimeoutRaw != "" {
			d, err := time.ParseDuration(provider.TimeoutRaw)
			if err != nil {
				return fmt.Errorf("calendar provider %s: invalid timeout %q: %w", name, provider.TimeoutRaw, err)
			}
			if d <= 0 {
				return fmt.Errorf("calendar provider %s: timeout must be positive, got %s", name, d)
			}
			provider.Timeout = d
		}
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("calendar config: providers cannot be empty")
	}
	if c.Default != "" {
		if _, ok := c.Providers[c.Default]; !ok {
			return fmt.Errorf("calendar config: default provider %q not defined", c.Default)
		}
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("calendar config: provider name cannot be empty")
		}
		if strings.TrimSpace(provider.Type) == "" {
			return fmt.Errorf("calendar config: provider %s must specify type", name)
		}
		if _, ok := lookupProviderBuilder(provider.Type); !ok {
			return fmt.Errorf("calendar config: provider %s has unsupported type %q", name, provider.Type)
		}
	}
	return nil
}

// BuildProviders instantiates calendar providers according to configuration.
func (c *Config) BuildProviders() (map[string]Provider, error) {
	result := make(map[string]Provider, len(c.Providers))
	for name, providerCfg := range c.Providers {
		builder, ok := lookupProviderBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("calendar provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("calendar provider %s: %w", name, err)
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
			return nil, fmt.Errorf("calendar config: default provider %q not built", c.Default)
		}
		return p, nil
	}
	if len(providers) == 1 {
		for _, p := range providers {
			return p, nil
		}
	}
	return nil, fmt.Errorf("calendar config: no default provider configured")
}
