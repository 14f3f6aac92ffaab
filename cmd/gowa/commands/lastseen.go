package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func lastSeenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lastseen <number>",
		Short: "Query the last-seen duration for a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := dial(context.Background())
			if err != nil {
				return fmt.Errorf("lastseen: %w", err)
			}
			defer client.Close()

			since, err := client.LastSeen(args[0])
			if err != nil {
				return fmt.Errorf("lastseen: %w", err)
			}

			fmt.Printf("%s last seen %s ago\n", args[0], since)

			return nil
		},
	}
}
