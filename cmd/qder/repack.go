package main

import (
	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/pkg/bitpack"
)

var repackCmd = &cobra.Command{
	Use:   "repack <data>",
	Short: "Regroup bits between per-byte widths",
	Long: `Treat each input byte as a group of --from bits and regroup the bit
stream into groups of --to bits, one group per output byte. The first output
group is padded with leading zero bits.

Examples:
  # 8-bit bytes to base-128 digits
  qder repack ffff --from 8 --to 7

  # and back
  qder repack 037f7f --from 7 --to 8`,
	Args: cobra.ExactArgs(1),
	RunE: runRepack,
}

var (
	repackFrom     int
	repackTo       int
	repackEncoding string
	repackFormat   string
)

func init() {
	repackCmd.Flags().IntVar(&repackFrom, "from", 8, "Input bit width (1-8)")
	repackCmd.Flags().IntVar(&repackTo, "to", 7, "Output bit width (1-8)")
	repackCmd.Flags().StringVar(&repackEncoding, "encoding", "", "Input encoding: hex, base64 (default: auto)")
	repackCmd.Flags().StringVar(&repackFormat, "format", "hex", "Output format: hex, base64, der")
}

func runRepack(cmd *cobra.Command, args []string) error {
	format, err := codec.ParseFormat(repackFormat)
	if err != nil {
		return err
	}
	data, err := codec.DecodeInput(args[0], repackEncoding)
	if err != nil {
		return err
	}
	out, err := bitpack.Repack(data, repackFrom, repackTo)
	if err != nil {
		return err
	}
	rendered, err := codec.Render(out, format, "")
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(rendered)
	return err
}
