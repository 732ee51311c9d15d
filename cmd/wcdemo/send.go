package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/walletconnect-go/connector/pkg/connector"
	"github.com/walletconnect-go/connector/pkg/protocol"
)

func newSendCmd() *cobra.Command {
	var (
		to       string
		value    int64
		gasLimit int64
		gasPrice int64
		nonce    int64
		data     string
		signOnly bool
	)

	cmd := &cobra.Command{
		Use:   "send <from>",
		Short: "Send (or, with --sign-only, just sign) an eth transaction via the paired wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := protocol.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("wcdemo: from: %w", err)
			}

			tx := protocol.Transaction{
				From:     from,
				GasLimit: protocol.NewQuantity(gasLimit),
				GasPrice: protocol.NewQuantity(gasPrice),
				Value:    protocol.NewQuantity(value),
				Nonce:    protocol.NewQuantity(nonce),
			}
			if to != "" {
				toAddr, err := protocol.ParseAddress(to)
				if err != nil {
					return fmt.Errorf("wcdemo: to: %w", err)
				}
				tx.To = &toAddr
			}
			if data != "" {
				raw, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
				if err != nil {
					return fmt.Errorf("wcdemo: data: %w", err)
				}
				tx.Data = raw
			}

			opts, logger, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			conn, err := connector.New(cmd.Context(), opts, logger)
			if err != nil {
				return fmt.Errorf("wcdemo: connect: %w", err)
			}
			defer conn.Close()

			if signOnly {
				raw, err := conn.SignTransaction(cmd.Context(), tx)
				if err != nil {
					return fmt.Errorf("wcdemo: sign transaction: %w", err)
				}
				fmt.Println("0x" + hex.EncodeToString(raw))
				return nil
			}

			hash, err := conn.SendTransaction(cmd.Context(), tx)
			if err != nil {
				return fmt.Errorf("wcdemo: send transaction: %w", err)
			}
			fmt.Println("0x" + hex.EncodeToString(hash[:]))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address, empty for contract creation")
	cmd.Flags().Int64Var(&value, "value", 0, "value to send, in wei")
	cmd.Flags().Int64Var(&gasLimit, "gas-limit", 21000, "gas limit")
	cmd.Flags().Int64Var(&gasPrice, "gas-price", 0, "gas price, in wei")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "account nonce")
	cmd.Flags().StringVar(&data, "data", "", "call data, optionally 0x-prefixed")
	cmd.Flags().BoolVar(&signOnly, "sign-only", false, "sign the transaction without broadcasting it")
	return cmd
}
