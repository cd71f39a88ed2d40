package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marion/csrd-analyzer/internal/corpus"
	"github.com/marion/csrd-analyzer/internal/observability"
)

var corpusCommand = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the regulatory corpus",
	Long:  "Loads the ESRS regulatory documents and prints how each file was categorized. Useful for checking the filename conventions before running an analysis.",
	RunE:  runCorpusCmd,
}

var corpusDir string

func init() {
	corpusCommand.Flags().StringVarP(&corpusDir, "corpus", "c", "data/csrd/general", "Directory of ESRS regulatory text files")
	rootCmd.AddCommand(corpusCommand)
}

func runCorpusCmd(_ *cobra.Command, _ []string) error {
	corp, warnings := corpus.Load(corpusDir)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintCorpusSummary(corp)

	for _, category := range corpus.Categories() {
		names := corp.DocumentNames(category)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s:\n", category)
		for _, name := range names {
			fmt.Fprintf(os.Stdout, "  %s\n", name)
		}
	}

	if corp.Len() == 0 {
		fmt.Fprintf(os.Stdout, "No regulatory documents found in %s\n", corpusDir)
	}

	return nil
}
