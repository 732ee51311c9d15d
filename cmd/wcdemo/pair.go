package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walletconnect-go/connector/pkg/connector"
	"github.com/walletconnect-go/connector/pkg/qr"
)

func newPairCmd() *cobra.Command {
	var noQR bool

	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pair with a wallet, printing the pairing URI and the resulting accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			conn, err := connector.New(cmd.Context(), opts, logger)
			if err != nil {
				return fmt.Errorf("wcdemo: connect: %w", err)
			}
			defer conn.Close()

			display := func(uri string) {
				fmt.Println(uri)
				if noQR {
					return
				}
				art, err := qr.Terminal(uri)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "wcdemo: render QR: %v\n", err)
					return
				}
				fmt.Println(art)
			}

			accounts, chainID, err := conn.EnsureSession(cmd.Context(), display)
			if err != nil {
				return fmt.Errorf("wcdemo: pair: %w", err)
			}

			fmt.Printf("connected: chainId=%d\n", chainID)
			for _, account := range accounts {
				fmt.Println(account.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noQR, "no-qr", false, "print the pairing URI without rendering a QR code")
	return cmd
}
