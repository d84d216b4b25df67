package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Inspect schema families and document types",
	Long: `Inspect the configured schema families.

Examples:
  mapforge schemas families
  mapforge schemas types ubl
  mapforge schemas order ubl Invoice --context Invoice.AccountingSupplierParty`,
}

var schemasFamiliesCmd = &cobra.Command{
	Use:   "families",
	Short: "List configured schema families",
	RunE:  runSchemasFamilies,
}

var schemasTypesCmd = &cobra.Command{
	Use:   "types <family>",
	Short: "List document types in a family",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemasTypes,
}

var schemasOrderCmd = &cobra.Command{
	Use:   "order <family> <root-element>",
	Short: "Show the element order for a document type context",
	Args:  cobra.ExactArgs(2),
	RunE:  runSchemasOrder,
}

var schemasContext string

func init() {
	rootCmd.AddCommand(schemasCmd)

	schemasCmd.AddCommand(schemasFamiliesCmd)
	schemasCmd.AddCommand(schemasTypesCmd)
	schemasCmd.AddCommand(schemasOrderCmd)

	schemasOrderCmd.Flags().StringVar(&schemasContext, "context", "", "dotted context path (default: the root element)")
}

func runSchemasFamilies(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	families := a.Resolver.Families()
	if len(families) == 0 {
		fmt.Println("No schema families configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPREFIX\tDIR")
	fmt.Fprintln(w, "--\t------\t---")
	for _, fam := range families {
		fmt.Fprintf(w, "%s\t%s\t%s\n", fam.ID, fam.Prefix, fam.Dir)
	}
	w.Flush()
	return nil
}

func runSchemasTypes(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	types, err := a.Resolver.DocumentTypes(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROOT ELEMENT\tDEFINITION FILE")
	fmt.Fprintln(w, "------------\t---------------")
	for _, dt := range types {
		fmt.Fprintf(w, "%s\t%s\n", dt.RootElement, dt.DefinitionFile)
	}
	w.Flush()
	return nil
}

func runSchemasOrder(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	docType, err := a.Resolver.ResolveDocumentType(args[0], args[1])
	if err != nil {
		return err
	}

	context := schemasContext
	if context == "" {
		context = docType.RootElement
	}

	names, ok, err := a.Resolver.ElementOrder(cmd.Context(), docType, context)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Context %s is unconstrained (no declared order)\n", context)
		return nil
	}
	fmt.Printf("%s:\n  %s\n", context, strings.Join(names, "\n  "))
	return nil
}
