package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/walletconnect-go/connector/internal/wclog"
	"github.com/walletconnect-go/connector/pkg/connector"
	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcconfig"
)

var demoMeta = protocol.Metadata{
	Name:        "wcdemo",
	Description: "WalletConnect v1 connector library demo",
	URL:         "https://github.com/walletconnect-go/connector",
}

// resolveOptions applies the three configuration layers in increasing
// priority: environment, --config file overlay, then explicit flags.
func resolveOptions(cmd *cobra.Command) (connector.Options, wclog.Logger, error) {
	opts, err := wcconfig.FromEnv(demoMeta)
	if err != nil {
		return connector.Options{}, nil, fmt.Errorf("wcdemo: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return connector.Options{}, nil, fmt.Errorf("wcdemo: bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		opts, err = wcconfig.FromFile(path, opts)
		if err != nil {
			return connector.Options{}, nil, fmt.Errorf("wcdemo: %w", err)
		}
	}

	if profile := v.GetString("profile"); profile != "" {
		opts.Profile = profile
	}
	if bridge := v.GetString("bridge"); bridge != "" {
		opts.Connection = connector.BridgeConnection{Bridge: bridge}
	}
	if chainID := v.GetUint64("chain-id"); chainID != 0 {
		opts.ChainID = &chainID
	}

	return opts, wclog.New(), nil
}
