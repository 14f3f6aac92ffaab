package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Run the handshake and print the returned account info",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := dial(context.Background())
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			defer client.Close()

			account := client.Account()

			fmt.Printf("logged in: kind=%s status=%s\n", account.Kind(), account.Status())

			return nil
		},
	}
}
