package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command; subcommands do the actual work.
var rootCmd = &cobra.Command{
	Use:   "licensegen",
	Short: "Build AAMVA DL records and render them as PDF417 barcodes",
	Long: `licensegen validates driver's-license input fields, builds the canonical
tagged record text, and renders it as a PDF417 barcode image.

Example usage:
  licensegen generate -i license.yaml -o barcode.png
  licensegen generate -i license.yaml --text-only`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
