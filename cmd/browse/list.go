package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/table"
	"github.com/meur/skyatlas/internal/tui"
)

var (
	listSort    string
	listDesc    bool
	listExclude []string
	listFormat  string
)

var listCmd = &cobra.Command{
	Use:   "list <table>",
	Short: "Print one table, optionally sorted and filtered",
	Long: `Print a catalog table without the interactive browser.

Tables: ships, outfits, coolers, generators, batteries.

Examples:
  browse list ships --sort Cost --desc
  browse list ships --exclude race=human --exclude license=Navy
  browse list coolers --sort "Cooling per space" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "", "Column to sort by")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
	listCmd.Flags().StringArrayVar(&listExclude, "exclude", nil, "Exclude a ship filter value, as dimension=value (repeatable)")
	listCmd.Flags().StringVar(&listFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	listing, ok := catalog.TableByID(args[0])
	if !ok {
		return fmt.Errorf("unknown table %q", args[0])
	}

	_, d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	ordering := table.Ordering{}
	if listSort != "" {
		dir := table.Ascending
		if listDesc {
			dir = table.Descending
		}
		ordering = table.OrderBy(listSort, dir)
	}

	var filter *table.FilterState
	if listing.Filterable() {
		filter = table.NewFilterState(d.Ships, catalog.ClassifyShip, table.Dimensions...)
		for _, ex := range listExclude {
			dimName, value, found := strings.Cut(ex, "=")
			if !found {
				return fmt.Errorf("--exclude wants dimension=value, got %q", ex)
			}
			dim, err := table.ParseDimension(dimName)
			if err != nil {
				return err
			}
			if filter.Included(dim, value) {
				if _, err := filter.Toggle(dim, value); err != nil {
					return err
				}
			}
		}
	} else if len(listExclude) > 0 {
		return fmt.Errorf("%s cannot be filtered", listing.Title())
	}

	result := listing.List(d, filter, ordering)
	if listFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(renderResult(result))
	return nil
}

func renderResult(result catalog.Result) string {
	headers := make([]string, len(result.Headers))
	for i, h := range result.Headers {
		headers[i] = h.Label
		switch h.Direction {
		case table.Ascending.String():
			headers[i] += " ▲"
		case table.Descending.String():
			headers[i] += " ▼"
		}
	}

	rows := make([][]string, len(result.Rows))
	for i, r := range result.Rows {
		cells := r.Cells()
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = tui.FormatCell(c)
		}
		rows[i] = row
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#2A3850"))).
		Headers(headers...).
		Rows(rows...)

	footer := fmt.Sprintf("%s: %d of %d shown", result.Title, result.Shown, result.Total)
	return t.Render() + "\n" + footer
}
