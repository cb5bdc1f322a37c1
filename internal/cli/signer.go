package cli

import (
	"fmt"

	"basegenius-quiz-service/internal/badge"
	"basegenius-quiz-service/internal/config"
	"basegenius-quiz-service/internal/infra/eth"
	"github.com/spf13/cobra"
)

// NewSignerCmd shows the locally configured signer and, when a contract
// address is configured, compares it with the signer the contract verifies
// against. A mismatch means issued signatures will not mint.
func NewSignerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signer",
		Short: "Show the configured mint signer and check it against the contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			signer, err := badge.NewSigner(cfg.Signer.PrivateKey)
			if err != nil {
				return err
			}
			if !signer.Ready() {
				fmt.Fprintln(cmd.OutOrStdout(), "no signer key configured, minting is disabled")
				return nil
			}
			local, err := signer.Address()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "local signer:    %s\n", local.Hex())

			if cfg.Chain.ContractAddress == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no contract address configured, skipping on-chain check")
				return nil
			}

			reader, err := eth.NewBadgeReader(cfg.RPCURL(), cfg.Chain.ContractAddress)
			if err != nil {
				return err
			}
			defer reader.Close()

			onchain, err := reader.ContractSigner(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contract signer: %s\n", onchain.Hex())
			if onchain == local {
				fmt.Fprintln(cmd.OutOrStdout(), "signer matches, mint signatures will verify")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "mismatch: call setSigner(%s) on the contract\n", local.Hex())
			}
			return nil
		},
	}
}
