package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meur/skyatlas/internal/catalog"
)

var shipCmd = &cobra.Command{
	Use:   "ship <slug> [modification]",
	Short: "Print a ship page as JSON",
	Long: `Print a ship, its variants and its outfit list as JSON.

Examples:
  browse ship falcon
  browse ship falcon falcon-plasma`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShip,
}

func init() {
	rootCmd.AddCommand(shipCmd)
}

func runShip(cmd *cobra.Command, args []string) error {
	cfg, d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	var mod string
	if len(args) == 2 {
		mod = args[1]
	}

	page, err := catalog.NewIndex(d, cfg.Dataset.SpriteBaseURL).ShipPage(args[0], mod)
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("no such ship: %w", err)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
