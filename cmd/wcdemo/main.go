// Command wcdemo is a thin CLI over pkg/connector: it pairs with a
// wallet, prints the resulting accounts, and can drive a handful of
// signing calls against the paired peer. It exists to exercise the
// library end to end, the way a real dapp integration would.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wcdemo",
		Short: "Demo dapp CLI built on the WalletConnect v1 connector library",
		Long: `wcdemo pairs with a wallet over the WalletConnect v1 bridge protocol
and drives a few signing calls against the paired peer.

Configuration is resolved from, in order: environment variables
(WC_BRIDGE_URL, WC_PROFILE, WC_CHAIN_ID), then a YAML file given with
--config, then --profile/--bridge/--chain-id flags, which take
final precedence.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}

	cmd.PersistentFlags().String("config", "", "path to a YAML config file overlay")
	cmd.PersistentFlags().String("profile", "", "session profile name (overrides WC_PROFILE)")
	cmd.PersistentFlags().String("bridge", "", "bridge server URL (overrides WC_BRIDGE_URL)")
	cmd.PersistentFlags().Uint64("chain-id", 0, "preferred chain id (overrides WC_CHAIN_ID)")

	cmd.AddCommand(newPairCmd())
	cmd.AddCommand(newSignCmd())
	cmd.AddCommand(newSendCmd())

	return cmd
}
