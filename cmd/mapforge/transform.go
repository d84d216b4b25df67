package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/adapters/parse"
	"github.com/mapforge/mapforge/bootstrap"
	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/mapping"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a document using a mapping configuration",
	Long: `Transform a source document into the target format described by a
mapping configuration.

The mapping is loaded from the store by name, or from a JSON file when
--mapping-file is given. The input format is inferred from the file
extension and can be forced with --format.

Examples:
  mapforge transform --mapping order-map --input order.xml
  mapforge transform --mapping-file map.json --input order.txt --format flat
  mapforge transform --mapping order-map --input order.xml --output invoice.xml`,
	RunE: runTransform,
}

var (
	transformMapping     string
	transformMappingFile string
	transformInput       string
	transformOutput      string
	transformFormat      string
	transformSegWidth    int
	transformCSVComma    string
)

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVar(&transformMapping, "mapping", "", "stored mapping name")
	transformCmd.Flags().StringVar(&transformMappingFile, "mapping-file", "", "mapping configuration JSON file")
	transformCmd.Flags().StringVar(&transformInput, "input", "", "source document file (required)")
	transformCmd.Flags().StringVar(&transformOutput, "output", "", "output file (default: stdout)")
	transformCmd.Flags().StringVar(&transformFormat, "format", "", "input format: xml, flat, csv (default: by extension)")
	transformCmd.Flags().IntVar(&transformSegWidth, "segment-width", 0, "flat format: fixed segment name width")
	transformCmd.Flags().StringVar(&transformCSVComma, "csv-comma", ",", "csv format: field separator")
	transformCmd.MarkFlagRequired("input")
}

func runTransform(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := loadMapping(cmd.Context(), a)
	if err != nil {
		return err
	}

	doc, err := loadDocument(transformInput, transformFormat)
	if err != nil {
		return err
	}

	result, err := a.Executor.Execute(cmd.Context(), cfg, doc)
	if err != nil {
		return fmt.Errorf("execute mapping: %w", err)
	}

	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "warning: connection %s: %s\n", issue.ConnectionID, issue.Reason)
	}

	out := os.Stdout
	if transformOutput != "" {
		f, err := os.Create(transformOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return parse.WriteXML(out, result.Output)
}

// loadMapping resolves the mapping from --mapping-file or the store.
func loadMapping(ctx context.Context, a *bootstrap.App) (mapping.Config, error) {
	if transformMappingFile != "" {
		data, err := os.ReadFile(transformMappingFile)
		if err != nil {
			return mapping.Config{}, fmt.Errorf("read mapping file: %w", err)
		}
		return mapping.Unmarshal(data)
	}
	if transformMapping == "" {
		return mapping.Config{}, fmt.Errorf("either --mapping or --mapping-file is required")
	}
	return a.Store.Get(ctx, transformMapping)
}

// loadDocument parses the input file in the requested or inferred format.
func loadDocument(path, format string) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xml":
			format = "xml"
		case ".csv":
			format = "csv"
		default:
			format = "flat"
		}
	}

	switch format {
	case "xml":
		return parse.XML(data)
	case "flat":
		return parse.Flat(data, parse.FlatOptions{SegmentNameLength: transformSegWidth})
	case "csv":
		comma := ','
		if transformCSVComma != "" {
			comma = rune(transformCSVComma[0])
		}
		return parse.CSV(data, comma)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}
