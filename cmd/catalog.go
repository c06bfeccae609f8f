package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/skillboard/internal/autocomplete"
	"github.com/zjrosen/skillboard/internal/catalog"
	"github.com/zjrosen/skillboard/internal/presentation"
)

var catalogLimit int

var catalogCmd = &cobra.Command{
	Use:   "catalog [query]",
	Short: "List or search the names a skill may take",
	Long: `Without a query, print every catalog entry. With a query, print the entries
containing it (case-insensitive), in catalog order, the same matches the
board's add dropdown offers.

Examples:
  skillboard catalog
  skillboard catalog script
  skillboard catalog c --limit 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		f := presentation.NewFormatter(cmd.OutOrStdout())
		if len(args) == 0 {
			return f.FormatNames(cat.Names())
		}
		return f.FormatNames(cat.Search(args[0], catalogLimit))
	},
}

func init() {
	catalogCmd.Flags().IntVarP(&catalogLimit, "limit", "n", autocomplete.MaxCandidates, "maximum matches to print")
	rootCmd.AddCommand(catalogCmd)
}
