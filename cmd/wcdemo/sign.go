package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walletconnect-go/connector/pkg/connector"
)

func newSignCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "sign <account> <message>",
		Short: "Request a signature over message from the paired wallet",
		Args:  cobra.ExactArgs(2),
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

			data := []string{args[0], args[1]}

			var signature []byte
			switch method {
			case "personal_sign":
				signature, err = conn.PersonalSign(cmd.Context(), data)
			case "eth_sign":
				signature, err = conn.Sign(cmd.Context(), data)
			case "eth_signTypedData":
				signature, err = conn.SignTypedData(cmd.Context(), data)
			case "eth_signTypedData_v3":
				signature, err = conn.SignTypedDataV3(cmd.Context(), data)
			case "eth_signTypedData_v4":
				signature, err = conn.SignTypedDataV4(cmd.Context(), data)
			default:
				return fmt.Errorf("wcdemo: unknown --method %q", method)
			}
			if err != nil {
				return fmt.Errorf("wcdemo: sign: %w", err)
			}

			fmt.Println("0x" + hex.EncodeToString(signature))
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "personal_sign",
		"signing method: personal_sign, eth_sign, eth_signTypedData(_v3|_v4)")
	return cmd
}
