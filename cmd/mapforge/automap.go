package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/domain/schema"
)

var automapCmd = &cobra.Command{
	Use:   "automap",
	Short: "Propose field connections between source and target field sets",
	Long: `Propose mapping connections by name and path similarity.

Source and target fields are JSON arrays of {name, path, business_term}.
When --existing names a stored mapping, already-covered targets are
skipped, so repeated runs only fill remaining gaps.

Examples:
  mapforge automap --source-fields src.json --target-fields tgt.json
  mapforge automap --source-fields src.json --target-fields tgt.json --existing order-map --threshold 0.7`,
	RunE: runAutomap,
}

var (
	automapSourceFields string
	automapTargetFields string
	automapExisting     string
	automapThreshold    float64
	automapOutput       string
)

func init() {
	rootCmd.AddCommand(automapCmd)

	automapCmd.Flags().StringVar(&automapSourceFields, "source-fields", "", "source field list JSON file (required)")
	automapCmd.Flags().StringVar(&automapTargetFields, "target-fields", "", "target field list JSON file (required)")
	automapCmd.Flags().StringVar(&automapExisting, "existing", "", "stored mapping whose covered targets are skipped")
	automapCmd.Flags().Float64Var(&automapThreshold, "threshold", 0, "minimum similarity score (default: from config)")
	automapCmd.Flags().StringVar(&automapOutput, "output", "", "write proposals as a mapping JSON file")
	automapCmd.MarkFlagRequired("source-fields")
	automapCmd.MarkFlagRequired("target-fields")
}

func runAutomap(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sourceFields, err := loadFields(automapSourceFields)
	if err != nil {
		return err
	}
	targetFields, err := loadFields(automapTargetFields)
	if err != nil {
		return err
	}

	existing := mapping.Config{}
	if automapExisting != "" {
		existing, err = a.Store.Get(cmd.Context(), automapExisting)
		if err != nil {
			return err
		}
	}

	threshold := automapThreshold
	if threshold == 0 {
		threshold = a.Config.AutoMap.Threshold
	}

	proposals := a.AutoMapper.Propose(existing, sourceFields, targetFields, threshold)
	if len(proposals) == 0 {
		fmt.Println("No connections proposed.")
		return nil
	}

	for _, conn := range proposals {
		fmt.Printf("%.2f  %s -> %s\n", conn.Score, conn.SourcePaths[0].String(), conn.TargetPath.String())
	}

	if automapOutput != "" {
		cfg := existing
		cfg.Connections = append(cfg.Connections, proposals...)
		data, err := mapping.Marshal(cfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(automapOutput, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Wrote %d connections to %s\n", len(cfg.Connections), automapOutput)
	}
	return nil
}

func loadFields(path string) ([]schema.Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	var fields []schema.Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse fields %s: %w", path, err)
	}
	return fields, nil
}
