package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
	"github.com/ironsheep/palette-tools-mcp/internal/imaging"
	"github.com/ironsheep/palette-tools-mcp/internal/quantize"
	"github.com/ironsheep/palette-tools-mcp/internal/studio"
)

// extractFlags holds the extract command flags.
type extractFlags struct {
	count   int
	step    int
	region  string
	save    string
	verbose bool
	json    bool
}

func (f *extractFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.count, "count", "n", 0, "number of colors to return (default from config, 6)")
	fs.IntVar(&f.step, "step", 0, "sampling grid spacing in pixels (default from config, 6)")
	fs.StringVar(&f.region, "region", "", "sample only x1,y1,x2,y2 (x2,y2 exclusive)")
	fs.StringVar(&f.save, "save", "", "save the extracted colors as a palette with this name")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-bucket counts and percentages")
	fs.BoolVar(&f.json, "json", false, "print JSON instead of one color per line")
}

func newExtractCmd(a *app) *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract <source>",
		Short: "Extract the most frequent colors of an image",
		Long: `Extract the most frequent colors of an image.

Pixels are visited on a grid, bucketed to 5 bits per channel and ranked by
frequency. The result always has exactly --count entries; missing entries are
filled with #EFEFEF.

The source may be a file path, an http(s) URL, a data: URI, or "sample" for
the built-in demo image.

Examples:
  # Six colors from a file
  palette-mcp extract photo.jpg

  # Four colors from the top-left corner, saved as a palette
  palette-mcp extract -n 4 --region 0,0,200,200 --save "Corner" photo.png

  # Bucket statistics for the demo image
  palette-mcp extract --verbose sample`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], flags)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, source string, flags extractFlags) error {
	req := studio.ExtractRequest{Source: source}
	if cmd.Flags().Changed("count") {
		if err := quantize.CheckCount(flags.count); err != nil {
			return fmt.Errorf("invalid --count: %w", err)
		}
		req.Count = &flags.count
	}
	if cmd.Flags().Changed("step") {
		req.Step = &flags.step
	}
	if flags.region != "" {
		region, err := imaging.ParseRegion(flags.region)
		if err != nil {
			return err
		}
		req.Region = &region
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	var colors []string
	if flags.verbose {
		analysis, err := a.studio.Analyze(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		if flags.json {
			return writeJSON(out, analysis)
		}
		colors = analysis.Colors
		printAnalysis(cmd, analysis)
	} else {
		var err error
		colors, err = a.studio.Extract(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		if flags.json {
			if err := writeJSON(out, colors); err != nil {
				return err
			}
		} else {
			color := isTerminal(out)
			for _, hex := range colors {
				fmt.Fprintln(out, colorLine(hex, color))
			}
		}
	}

	if len(colors) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No colors found")
	}

	if flags.save != "" {
		parsed := make([]colour.Color, 0, len(colors))
		for _, h := range colors {
			parsed = append(parsed, colour.MustParseHex(h))
		}
		p, _, err := a.studio.SaveColors(ctx, flags.save, parsed)
		if err != nil {
			return fmt.Errorf("failed to save palette: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved palette %q (%d colors)\n", p.Name, len(p.Colors))
	}
	return nil
}

func printAnalysis(cmd *cobra.Command, a *studio.Analysis) {
	out := cmd.OutOrStdout()
	color := isTerminal(out)

	fmt.Fprintf(out, "Sampled %dx%d every %d px: %d pixels, %d opaque, %d buckets\n\n",
		a.Width, a.Height, a.Step, a.Sampled, a.Retained, a.Distinct)

	table := NewTable([]string{"#", "COLOR", "PIXELS", "SHARE"})
	for i, hex := range a.Colors {
		pixels, share := "-", "padding"
		if i < len(a.Buckets) {
			pixels = fmt.Sprintf("%d", a.Buckets[i].Count)
			share = fmt.Sprintf("%.1f%%", a.Buckets[i].Percent)
		}
		table.AddRow([]string{fmt.Sprintf("%d", i+1), colorLine(hex, color), pixels, share})
	}
	fmt.Fprint(out, strings.TrimSuffix(table.Render(), "\n")+"\n")
}
