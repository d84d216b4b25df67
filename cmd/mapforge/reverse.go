package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/domain/mapping"
)

var reverseCmd = &cobra.Command{
	Use:   "reverse <name>",
	Short: "Derive the inverse of a stored mapping",
	Long: `Derive a best-effort inverse mapping: sources and targets swap and
each transformation is inverted where possible. Connections whose
transformation has no exact inverse are kept as direct copies and
flagged approximate for manual review.

Examples:
  mapforge reverse order-map
  mapforge reverse order-map --save
  mapforge reverse order-map --output reversed.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReverse,
}

var (
	reverseSave   bool
	reverseOutput string
)

func init() {
	rootCmd.AddCommand(reverseCmd)

	reverseCmd.Flags().BoolVar(&reverseSave, "save", false, "save the inverse to the store")
	reverseCmd.Flags().StringVar(&reverseOutput, "output", "", "write the inverse to a JSON file")
}

func runReverse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := a.Store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	inverted := a.Reverser.Invert(cfg)

	approx := 0
	for _, conn := range inverted.Connections {
		if conn.ApproxInverse {
			approx++
			fmt.Fprintf(os.Stderr, "warning: approximate inverse: %s -> %s\n",
				conn.SourcePaths[0].String(), conn.TargetPath.String())
		}
	}
	fmt.Printf("Inverted %s: %d connections (%d approximate)\n",
		cfg.Name, len(inverted.Connections), approx)

	if reverseSave {
		if err := a.Store.Save(cmd.Context(), inverted); err != nil {
			return err
		}
		fmt.Printf("Saved mapping %s\n", inverted.Name)
	}
	if reverseOutput != "" {
		data, err := mapping.Marshal(inverted)
		if err != nil {
			return err
		}
		if err := os.WriteFile(reverseOutput, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
