package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

func newSavedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved palettes",
		Long: `Manage saved palettes. Palettes are kept newest first, at most 100 (see
max_saved), in the configured store.`,
	}
	cmd.AddCommand(newSavedListCmd(a))
	cmd.AddCommand(newSavedDeleteCmd(a))
	cmd.AddCommand(newSavedClearCmd(a))
	return cmd
}

func newSavedListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved palettes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.studio.Saved(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No saved palettes")
				return nil
			}
			fmt.Fprint(out, renderSaved(list, isTerminal(out)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// renderSaved formats saved palettes as a table.
func renderSaved(list []palette.Palette, color bool) string {
	table := NewTable([]string{"#", "NAME", "CREATED", "COLORS"})
	for i, p := range list {
		colors := make([]string, len(p.Colors))
		for j, hex := range p.Colors {
			colors[j] = colorLine(hex, color)
		}
		created := "-"
		if p.Created > 0 {
			created = p.CreatedAt().Local().Format("2006-01-02 15:04")
		}
		table.AddRow([]string{strconv.Itoa(i), p.Name, created, strings.Join(colors, " ")})
	}
	return table.Render()
}

func newSavedDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the saved palette at a 0-based index",
		Long:  `Delete the saved palette at a 0-based index, as shown by "saved list". An index outside the list changes nothing.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			before := len(a.studio.Saved(cmd.Context()))
			after := a.studio.DeleteSaved(cmd.Context(), index)
			if len(after) == before {
				fmt.Fprintf(cmd.ErrOrStderr(), "No saved palette at index %d\n", index)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted palette %d, %d remaining\n", index, len(after))
			return nil
		},
	}
}

func newSavedClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.studio.ClearSaved(cmd.Context()) {
				return fmt.Errorf("failed to clear saved palettes")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared saved palettes")
			return nil
		},
	}
}
