package cli

import (
	"fmt"

	"basegenius-quiz-service/internal/badge"
	"github.com/spf13/cobra"
)

// NewKeygenCmd generates a fresh signer wallet. The key is only used to sign
// mint authorizations, so the account never needs funds.
func NewKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new mint signer wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, privateKey, err := badge.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "address:     %s\n", address)
			fmt.Fprintf(cmd.OutOrStdout(), "private key: %s\n\n", privateKey)
			fmt.Fprintf(cmd.OutOrStdout(), "add to your environment (never commit it):\n")
			fmt.Fprintf(cmd.OutOrStdout(), "SIGNER_PRIVATE_KEY=%s\n\n", privateKey)
			fmt.Fprintf(cmd.OutOrStdout(), "then point the badge contract's setSigner at %s\n", address)
			return nil
		},
	}
}
