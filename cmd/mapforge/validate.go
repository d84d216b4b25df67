package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/adapters/parse"
	"github.com/mapforge/mapforge/config"
	"github.com/mapforge/mapforge/domain/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate documents and configuration",
}

var validateConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}
		fmt.Println("Configuration valid")
		fmt.Printf("  Schema families: %d\n", len(cfg.Schemas))
		fmt.Printf("  Database:        %s\n", cfg.Database.Driver)
		return nil
	},
}

var validateDocCmd = &cobra.Command{
	Use:   "document <file>",
	Short: "Validate a document against its schema and business rules",
	Long: `Validate a document's structure against the schema's element
constraints, then evaluate business rules when a rules file is given.

The document type is resolved from the root element within the family.

Examples:
  mapforge validate document invoice.xml --family ubl
  mapforge validate document invoice.xml --family ubl --rules rules.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateDoc,
}

var (
	validateFamily string
	validateRules  string
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.AddCommand(validateConfigCmd)
	validateCmd.AddCommand(validateDocCmd)

	validateDocCmd.Flags().StringVar(&validateFamily, "family", "", "schema family ID (required)")
	validateDocCmd.Flags().StringVar(&validateRules, "rules", "", "business rules JSON file")
	validateDocCmd.MarkFlagRequired("family")
}

func runValidateDoc(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc, err := parse.XML(data)
	if err != nil {
		return err
	}

	docType, err := a.Resolver.ResolveDocumentType(validateFamily, doc.Name)
	if err != nil {
		return err
	}

	var rules []validate.Rule
	if validateRules != "" {
		rulesData, err := os.ReadFile(validateRules)
		if err != nil {
			return fmt.Errorf("read rules: %w", err)
		}
		if err := json.Unmarshal(rulesData, &rules); err != nil {
			return fmt.Errorf("parse rules: %w", err)
		}
	}

	violations := a.Validator.Validate(cmd.Context(), doc, docType, rules)
	if len(violations) == 0 {
		fmt.Println("Document valid")
		return nil
	}

	errors := 0
	for _, v := range violations {
		fmt.Printf("%s  [%s] %s\n", v.Severity, v.RuleID, v.Message)
		if v.Severity == validate.SeverityError {
			errors++
		}
	}
	if errors > 0 {
		return fmt.Errorf("%d error violations", errors)
	}
	return nil
}
