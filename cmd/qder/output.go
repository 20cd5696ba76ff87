package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/codec"
)

// outputFormat resolves --format. Files default to raw DER, stdout to hex.
func outputFormat(flag, out string) (codec.Format, error) {
	if flag == "" {
		if out != "" {
			return codec.FormatRaw, nil
		}
		return codec.FormatHex, nil
	}
	return codec.ParseFormat(flag)
}

// writeOutput renders data and writes it to path, or to stdout when path
// is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte, format codec.Format, pemType string) error {
	rendered, err := codec.Render(data, format, pemType)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = cmd.OutOrStdout().Write(rendered)
		return err
	}
	if err := os.WriteFile(path, rendered, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
