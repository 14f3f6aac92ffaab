package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// thumbnailCap bounds how many bytes of the local file we embed as the
// media thumbnail; the protocol has no separate upload step, so the
// path itself stands in for the url attribute (spec.md §4.7).
const thumbnailCap = 4096

func imageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <number> <path>",
		Short: "Send an image media message",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			to, path := args[0], args[1]

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("image: %w", err)
			}

			thumbnail, err := readThumbnail(path)
			if err != nil {
				return fmt.Errorf("image: %w", err)
			}

			client, err := dial(context.Background())
			if err != nil {
				return fmt.Errorf("image: %w", err)
			}
			defer client.Close()

			id, err := client.Image(to, path, filepath.Base(path), info.Size(), thumbnail)
			if err != nil {
				return fmt.Errorf("image: %w", err)
			}

			fmt.Println(id)

			return nil
		},
	}
}

func readThumbnail(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, thumbnailCap)

	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}

	return buf[:n], nil
}
