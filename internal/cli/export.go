package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/palette-tools-mcp/internal/palette"
	"github.com/ironsheep/palette-tools-mcp/internal/studio"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		saved  int
	)

	cmd := &cobra.Command{
		Use:   "export <format> [colors...]",
		Short: "Export a palette as JSON, CSS, GIMP palette or PNG",
		Long: `Export colors in one of the formats json, css, gpl or png.

Give the colors as arguments, or select a saved palette with --saved. PNG
output is a swatch strip and is refused on a terminal unless -o is given.

Examples:
  palette-mcp export css "#7C3AED" "#059669"
  palette-mcp export gpl --saved 0 -o palette.gpl
  palette-mcp export png --saved 0 -o swatches.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := palette.ParseFormat(args[0])
			if err != nil {
				return err
			}

			src := studio.ExportSource{Colors: args[1:]}
			if cmd.Flags().Changed("saved") {
				if len(src.Colors) > 0 {
					return fmt.Errorf("give either colors or --saved, not both")
				}
				src.SavedIndex = &saved
			} else if len(src.Colors) == 0 {
				return fmt.Errorf("no colors given (pass colors or --saved <index>)")
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			} else if format.Binary() && isTerminal(w) {
				return fmt.Errorf("refusing to write %s data to a terminal (use -o)", format)
			}

			if err := a.studio.Export(cmd.Context(), w, format, src); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&saved, "saved", 0, "export the saved palette at this 0-based index")
	return cmd
}
