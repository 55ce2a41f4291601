// Package config loads per-binary TOML configuration with environment
// overrides applied on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// DefaultChannel is the logical channel id both message shapes travel on.
const DefaultChannel = "azsu:main"

// RouterConfig configures the proxy-side daemon.
type RouterConfig struct {
	Name       string `toml:"name" env:"CROSSFWD_ROUTER_NAME"`
	ListenAddr string `toml:"listen_addr" env:"CROSSFWD_LISTEN_ADDR"`
	Channel    string `toml:"channel" env:"CROSSFWD_CHANNEL"`
}

// NodeConfig configures the destination-side agent.
type NodeConfig struct {
	Name    string `toml:"name" env:"CROSSFWD_NODE_NAME"`
	HubURL  string `toml:"hub_url" env:"CROSSFWD_HUB_URL"`
	Channel string `toml:"channel" env:"CROSSFWD_CHANNEL"`
}

// LoadRouterConfig reads path ("" skips the file), then applies env
// overrides and defaults.
func LoadRouterConfig(path string) (RouterConfig, error) {
	var cfg RouterConfig
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return RouterConfig{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return RouterConfig{}, fmt.Errorf("config env parse failed: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = "routerd"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":9190"
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if err := ValidateRouterConfig(cfg); err != nil {
		return RouterConfig{}, err
	}
	return cfg, nil
}

// LoadNodeConfig reads path ("" skips the file), then applies env overrides
// and defaults.
func LoadNodeConfig(path string) (NodeConfig, error) {
	var cfg NodeConfig
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return NodeConfig{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return NodeConfig{}, fmt.Errorf("config env parse failed: %w", err)
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if err := ValidateNodeConfig(cfg); err != nil {
		return NodeConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRouterConfig(cfg RouterConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("router config missing name")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("router config missing listen_addr")
	}
	if err := validateChannel(cfg.Channel); err != nil {
		return fmt.Errorf("router config: %w", err)
	}
	return nil
}

func ValidateNodeConfig(cfg NodeConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("node config missing name")
	}
	if strings.TrimSpace(cfg.HubURL) == "" {
		return fmt.Errorf("node config missing hub_url")
	}
	if err := validateChannel(cfg.Channel); err != nil {
		return fmt.Errorf("node config: %w", err)
	}
	return nil
}

// validateChannel enforces the <namespace>:<channel> identifier form.
func validateChannel(channel string) error {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return fmt.Errorf("channel is required")
	}
	parts := strings.Split(channel, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("channel %q must be namespace:name", channel)
	}
	return nil
}
