package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/domain/mapping"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage stored mapping configurations",
	Long: `Manage mapping configurations in the store.

Stored mappings are immutable: saving over an existing name fails. Save
under a new name to revise a mapping.

Examples:
  mapforge mappings list
  mapforge mappings get order-map
  mapforge mappings save map.json
  mapforge mappings delete order-map`,
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored mappings",
	RunE:  runMappingsList,
}

var mappingsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a mapping configuration as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingsGet,
}

var mappingsSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a mapping configuration from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingsSave,
}

var mappingsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored mapping",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingsDelete,
}

func init() {
	rootCmd.AddCommand(mappingsCmd)

	mappingsCmd.AddCommand(mappingsListCmd)
	mappingsCmd.AddCommand(mappingsGetCmd)
	mappingsCmd.AddCommand(mappingsSaveCmd)
	mappingsCmd.AddCommand(mappingsDeleteCmd)
}

func runMappingsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.Store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list mappings: %w", err)
	}
	if len(names) == 0 {
		fmt.Println("No mappings found.")
		fmt.Println()
		fmt.Println("Save one with: mapforge mappings save map.json")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tTARGET\tCONNECTIONS")
	fmt.Fprintln(w, "----\t------\t------\t-----------")
	for _, name := range names {
		cfg, err := a.Store.Get(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s/%s\t%s/%s\t%d\n",
			cfg.Name, cfg.SourceFamily, cfg.SourceType, cfg.TargetFamily, cfg.TargetType, len(cfg.Connections))
	}
	w.Flush()
	return nil
}

func runMappingsGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := a.Store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	data, err := mapping.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runMappingsSave(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read mapping file: %w", err)
	}
	cfg, err := mapping.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("parse mapping file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}
	if err := a.Store.Save(cmd.Context(), cfg); err != nil {
		return err
	}
	fmt.Printf("Saved mapping %s (%d connections)\n", cfg.Name, len(cfg.Connections))
	return nil
}

func runMappingsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted mapping %s\n", args[0])
	return nil
}
