// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for dealer binaries.
//
// Configuration is loaded from a single file specified by:
//   - DEALER_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery.
//
// The config file may contain environment-specific sections (development,
// staging, production) whose endpoint and health settings override the
// base values when the environment matches.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/core"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Well-known endpoint names.
const (
	EndpointHealth       = "health"
	EndpointBankState    = "bank_state"
	EndpointInvoices     = "invoices"
	EndpointFiatDeposits = "fiat_deposits"
	EndpointTransactions = "transactions"
)

// Config is the configuration of one dealer process.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// Network is the chain transaction states are tagged with.
	Network core.Network `yaml:"network"`

	// Health configures the periodic health publisher.
	Health HealthConfig `yaml:"health"`

	// Endpoints maps logical endpoint names to transport settings.
	Endpoints map[string]EndpointConfig `yaml:"endpoints"`

	// Environment-specific overrides.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides holds environment-specific settings.
type ConfigOverrides struct {
	Health    *HealthConfig             `yaml:"health,omitempty"`
	Endpoints map[string]EndpointConfig `yaml:"endpoints,omitempty"`
}

// HealthConfig configures the health publisher.
type HealthConfig struct {
	// Interval between two Health messages, e.g. "5s".
	Interval time.Duration `yaml:"interval"`

	// Currencies the dealer advertises as available.
	Currencies []core.Currency `yaml:"currencies"`
}

// EndpointConfig is the transport address and wire format of one
// logical endpoint.
type EndpointConfig struct {
	// Address is passed to the transport uninterpreted, e.g.
	// "tcp://127.0.0.1:5560" or "inproc://health".
	Address string `yaml:"address"`

	// Encoding is text, compact, compact+zstd or compact+lz4. Empty
	// means text.
	Encoding codec.Encoding `yaml:"encoding"`

	// Topic filters subscriptions. Empty receives everything.
	Topic string `yaml:"topic"`
}

// Default returns the base configuration the file is merged into.
// The config file itself is still required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Network:     core.Bitcoin,
		Health: HealthConfig{
			Interval: 5 * time.Second,
		},
		Endpoints: make(map[string]EndpointConfig),
	}
}

// Load loads configuration from the DEALER_CONFIG environment variable.
// There is no fallback: if DEALER_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("DEALER_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("DEALER_CONFIG environment variable not set; " +
			"set it to the path of your dealer.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// overrides of the configured environment and expands ${VAR} and
// ${VAR:-default} in endpoint addresses.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Health != nil {
		if overrides.Health.Interval != 0 {
			c.Health.Interval = overrides.Health.Interval
		}
		if overrides.Health.Currencies != nil {
			c.Health.Currencies = overrides.Health.Currencies
		}
	}

	if c.Endpoints == nil && len(overrides.Endpoints) > 0 {
		c.Endpoints = make(map[string]EndpointConfig, len(overrides.Endpoints))
	}
	for name, override := range overrides.Endpoints {
		endpoint := c.Endpoints[name]
		if override.Address != "" {
			endpoint.Address = override.Address
		}
		// Encoding's zero value is text, so an override can only move
		// an endpoint to a compact encoding.
		if override.Encoding != codec.Text {
			endpoint.Encoding = override.Encoding
		}
		if override.Topic != "" {
			endpoint.Topic = override.Topic
		}
		c.Endpoints[name] = endpoint
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"DEALER_ENVIRONMENT": string(c.Environment),
	}

	for name, endpoint := range c.Endpoints {
		endpoint.Address = expandVars(endpoint.Address, vars)
		endpoint.Topic = expandVars(endpoint.Topic, vars)
		c.Endpoints[name] = endpoint
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Endpoint returns the endpoint registered under name.
func (c *Config) Endpoint(name string) (EndpointConfig, error) {
	endpoint, ok := c.Endpoints[name]
	if !ok {
		return EndpointConfig{}, fmt.Errorf("endpoint %q is not configured (have %v)", name, c.endpointNames())
	}
	return endpoint, nil
}

func (c *Config) endpointNames() []string {
	names := make([]string, 0, len(c.Endpoints))
	for name := range c.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	environments := []Environment{Development, Staging, Production}
	if !slices.Contains(environments, c.Environment) {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if !c.Network.Valid() {
		errs = append(errs, fmt.Errorf("invalid network: %q", c.Network))
	}

	if c.Health.Interval <= 0 {
		errs = append(errs, fmt.Errorf("health.interval must be positive, got %s", c.Health.Interval))
	}
	for _, currency := range c.Health.Currencies {
		if !currency.Valid() {
			errs = append(errs, fmt.Errorf("health.currencies: unknown currency %q", currency))
		}
	}

	for _, name := range c.endpointNames() {
		if c.Endpoints[name].Address == "" {
			errs = append(errs, fmt.Errorf("endpoints.%s.address is required", name))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
