package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/core/extract"
	"github.com/joseph-ayodele/catalog-specs/internal/core/ocr"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/ingest"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <image>",
	Short: "Recognize one table image and print the text and extracted fields",
	Long: `OCR runs a single image through the validator, the recognition session and the
field extractor, printing the normalized text and the record that extract would
write. Nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	if v := ingest.NewValidator(cfg.OCR.MinImageBytes, logger).Validate(path); !v.Valid {
		return fmt.Errorf("%s: %s", path, v.Reason)
	}

	session, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	start := time.Now()
	res := session.Recognize(ctx, path)
	if res.Outcome != ocr.OutcomeOK {
		logger.Error("ocr.failed", "path", path, "outcome", res.Outcome.String(), "error", res.Err,
			"duration_ms", time.Since(start).Milliseconds())
		return res.Err
	}
	logger.Info("ocr.ok", "path", path, "chars", len(res.Text), "duration_ms", res.Duration.Milliseconds())

	spec := extract.NewParser(logger).Parse(res.Text)
	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	out := console.Writer()
	fmt.Fprintf(out, "--- text ---\n%s\n--- specs.json ---\n%s\n", res.Text, b)
	if missing := spec.Missing(); len(missing) > 0 {
		console.Warning(path, fmt.Sprintf("missing %v", entity.FieldNames(missing)))
	}
	return nil
}
