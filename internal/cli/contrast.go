package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContrastCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "contrast <foreground> <background>",
		Short: "Compute the WCAG contrast ratio of two colors",
		Long: `Compute the WCAG 2.x contrast ratio of two hex colors, rounded to two
decimals, and its conformance grade (AAA, AA, AA Large or Fail).

Colors may be written #RGB or #RRGGBB, with or without the leading #. If
either color is invalid the ratio is reported as not computable and the
command exits with an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.studio.Contrast(args[0], args[1])
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			}
			if res.Ratio == nil {
				return fmt.Errorf("contrast not computable: %q and %q must both be hex colors", args[0], args[1])
			}
			if !asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f:1 %s\n", *res.Ratio, res.Grade)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
