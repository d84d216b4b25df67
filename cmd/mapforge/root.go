package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/bootstrap"
	"github.com/mapforge/mapforge/config"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mapforge",
	Short: "Schema-driven document mapping and transformation engine",
	Long: `Mapforge transforms documents between structured formats using
declarative mapping configurations grounded in schema definitions.

Quick start:
  mapforge transform --mapping order-map --input order.xml
  mapforge automap --source-fields src.json --target-fields tgt.json

Management:
  mapforge mappings   # Manage stored mapping configurations
  mapforge schemas    # Inspect schema families and document types
  mapforge validate   # Validate documents and configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "mapforge.yaml", "config file path")
}

// newApp loads configuration and wires the application for a command run.
func newApp() (*bootstrap.App, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}
