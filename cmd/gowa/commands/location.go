package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func locationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "location <number> <lat> <lng>",
		Short: "Send a location media message",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("location: invalid lat %q: %w", args[1], err)
			}

			lng, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("location: invalid lng %q: %w", args[2], err)
			}

			client, err := dial(context.Background())
			if err != nil {
				return fmt.Errorf("location: %w", err)
			}
			defer client.Close()

			id, err := client.Location(args[0], lat, lng)
			if err != nil {
				return fmt.Errorf("location: %w", err)
			}

			fmt.Println(id)

			return nil
		},
	}
}
