package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var errNotRecognized = errors.New("no monument recognized")

func newRecognizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recognize <image>",
		Short: "Identify the monument in an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			result, err := a.Service.Recognize(cmd.Context(), image)
			if err != nil {
				return fmt.Errorf("recognize %s: %w", args[0], err)
			}

			if err := writeJSON(cmd, result); err != nil {
				return err
			}
			if !result.Success {
				return errNotRecognized
			}
			return nil
		},
	}
}

// normalizeKey accepts slugs like "taj-mahal" for catalog keys
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("-", " ", "_", " ").Replace(key)
}
