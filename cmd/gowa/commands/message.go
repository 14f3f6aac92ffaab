package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func messageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message <number> [text]",
		Short: "Send a one-to-one text message",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 || args[1] == "" {
				return fmt.Errorf("message: [text] is required")
			}

			text := args[1]

			client, err := dial(context.Background())
			if err != nil {
				return fmt.Errorf("message: %w", err)
			}
			defer client.Close()

			id, err := client.Message(args[0], strings.TrimSpace(text))
			if err != nil {
				return fmt.Errorf("message: %w", err)
			}

			fmt.Println(id)

			return nil
		},
	}
}
