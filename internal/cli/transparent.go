package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/molview/internal/depict"
)

func newTransparentCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "transparent [FILE]",
		Short: "Make the white background of an SVG transparent",
		Long:  "transparent rewrites the background rect of an SVG (from a file, or stdin) to fill:none.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			svg, err := depict.TransparentSVG(string(data))
			if err != nil {
				return fmt.Errorf("transparent: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), out, []byte(svg+"\n"))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file; - writes to stdout")
	return cmd
}
