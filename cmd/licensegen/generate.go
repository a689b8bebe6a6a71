package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"licensegen/internal/barcode"
	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	"licensegen/internal/license/service"
	"licensegen/internal/platform/config"
	"licensegen/internal/platform/logger"
	"licensegen/internal/platform/metrics"
)

var (
	inputPath  string
	outputPath string
	textOnly   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Validate a license input file and render its PDF417 barcode",
	Long: `Reads license fields from a YAML file, runs the validation pipeline,
builds the canonical record text, and writes the rendered barcode PNG.

The input file uses the same field names as the HTTP API, for example:

  dl_number: "091076664"
  first_name: JOHN
  last_name: DOE
  address: 123 MAIN ST
  city: NASHVILLE
  state: TN
  zip_code: "37203"
  sex: M
  height_inches: "72"
  birth_date: "04151988"
  issue_date: "07282025"
  expiry_date: "07282033"
  eye_color: BRO`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the YAML input file (required)")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "barcode.png", "Path for the rendered PNG")
	generateCmd.Flags().BoolVar(&textOnly, "text-only", false, "Print the canonical record text instead of rendering")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	var in models.RawLicenseInput
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parsing input file: %w", err)
	}

	log := logger.New()
	tables := codes.NewTables()
	encoder := barcode.NewPDF417Encoder(config.FromEnv().Barcode)
	svc := service.New(tables, encoder, metrics.New(prometheus.NewRegistry()), log)

	ctx := context.Background()

	if textOnly {
		res, err := svc.BuildRecord(ctx, &in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	}

	res, err := svc.Generate(ctx, &in)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, res.Image.PNG, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, %d record bytes, IIN %s)\n",
		outputPath, res.Image.Width, res.Image.Height, len(res.Text), res.IIN)
	return nil
}
