// Package config loads the tooling configuration: the network store plus
// logging, history and telemetry settings.
package config

import (
	"sort"
)

// Network kinds.
const (
	KindEVM     = "evm"
	KindStellar = "stellar"
)

// Config is the root configuration.
type Config struct {
	DefaultNetwork string             `koanf:"default_network" validate:"required"`
	Networks       map[string]Network `koanf:"networks"        validate:"required,min=1,dive"`
	Tools          map[string]string  `koanf:"tools"`
	Log            LogConfig          `koanf:"log"`
	History        HistoryConfig      `koanf:"history"`
	Telemetry      TelemetryConfig    `koanf:"telemetry"`
}

// Network is a named chain endpoint a task can target.
type Network struct {
	Name        string `koanf:"-"`
	Kind        string `koanf:"kind"         validate:"required,oneof=evm stellar"`
	ChainID     uint64 `koanf:"chain_id"`
	RPCURL      string `koanf:"rpc_url"      validate:"omitempty,url"`
	HorizonURL  string `koanf:"horizon_url"  validate:"omitempty,url"`
	ExplorerURL string `koanf:"explorer_url" validate:"omitempty,url"`
	Passphrase  string `koanf:"passphrase"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type TelemetryConfig struct {
	Endpoint    string `koanf:"endpoint"     validate:"omitempty,url"`
	ServiceName string `koanf:"service_name" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultNetwork: "mainnet",
		Networks: map[string]Network{
			"mainnet": {
				Kind:        KindEVM,
				ChainID:     1,
				RPCURL:      "https://eth.llamarpc.com",
				ExplorerURL: "https://etherscan.io",
			},
			"stellar-testnet": {
				Kind:       KindStellar,
				HorizonURL: "https://horizon-testnet.stellar.org",
				Passphrase: "Test SDF Network ; September 2015",
			},
			"stellar-mainnet": {
				Kind:       KindStellar,
				HorizonURL: "https://horizon.stellar.org",
				Passphrase: "Public Global Stellar Network ; September 2015",
			},
		},
		Tools: map[string]string{
			"forge": ">= 0.2.0",
		},
		Log: LogConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "tooling",
		},
	}
}

// NetworkByName returns the network configured under name.
func (c *Config) NetworkByName(name string) (Network, bool) {
	n, ok := c.Networks[name]
	if !ok {
		return Network{}, false
	}
	n.Name = name
	return n, true
}

// NetworkNames returns the configured network names, sorted.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) DefaultNetworkName() string {
	return c.DefaultNetwork
}
