// Package wcconfig resolves connector.Options from the environment and
// from an optional YAML overlay file, the two non-flag configuration
// sources a long-running dapp process typically wires up around this
// library (cmd/wcdemo binds the third source, CLI flags, via viper).
package wcconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/walletconnect-go/connector/pkg/connector"
	"github.com/walletconnect-go/connector/pkg/protocol"
)

// File is the YAML shape accepted by FromFile. Any field left zero keeps
// whatever FromEnv (or the caller) already set.
type File struct {
	Profile string  `yaml:"profile"`
	Bridge  string  `yaml:"bridge"`
	ChainID *uint64 `yaml:"chainId"`
	Meta    struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		URL         string   `yaml:"url"`
		Icons       []string `yaml:"icons"`
	} `yaml:"meta"`
}

// Environment variable names FromEnv reads.
const (
	EnvBridgeURL = "WC_BRIDGE_URL"
	EnvProfile   = "WC_PROFILE"
	EnvChainID   = "WC_CHAIN_ID"
)

// FromEnv builds Options from environment variables, applying the
// library's defaults for anything unset: profile "default" and the
// public WalletConnect bridge.
func FromEnv(meta protocol.Metadata) (connector.Options, error) {
	opts := connector.NewOptions(envOrDefault(EnvProfile, "default"), meta)

	if bridge := os.Getenv(EnvBridgeURL); bridge != "" {
		opts.Connection = connector.BridgeConnection{Bridge: bridge}
	}

	if raw := os.Getenv(EnvChainID); raw != "" {
		chainID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return connector.Options{}, fmt.Errorf("wcconfig: %s: %w", EnvChainID, err)
		}
		opts.ChainID = &chainID
	}

	return opts, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// FromFile overlays a YAML config file onto base, returning the merged
// Options. A field absent from the file leaves base's value untouched.
func FromFile(path string, base connector.Options) (connector.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return connector.Options{}, fmt.Errorf("wcconfig: read %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return connector.Options{}, fmt.Errorf("wcconfig: parse %s: %w", path, err)
	}

	opts := base
	if file.Profile != "" {
		opts.Profile = file.Profile
	}
	if file.Bridge != "" {
		opts.Connection = connector.BridgeConnection{Bridge: file.Bridge}
	}
	if file.ChainID != nil {
		opts.ChainID = file.ChainID
	}
	if file.Meta.Name != "" {
		opts.Meta.Name = file.Meta.Name
	}
	if file.Meta.Description != "" {
		opts.Meta.Description = file.Meta.Description
	}
	if file.Meta.URL != "" {
		opts.Meta.URL = file.Meta.URL
	}
	if len(file.Meta.Icons) > 0 {
		opts.Meta.Icons = file.Meta.Icons
	}

	return opts, nil
}
