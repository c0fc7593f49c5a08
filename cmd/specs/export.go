package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/export"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every specs.json to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&flagOut, "out", "", "Output path (default: EXPORT_PATH)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	out := flagOut
	if out == "" {
		out = cfg.Export.Path
	}
	svc := export.NewService(export.Config{
		AssetsRoot: cfg.Assets.Root,
		Categories: cfg.Assets.Categories,
	}, repository.NewSpecStore(logger), logger)

	n, err := svc.WriteFile(cmd.Context(), out)
	if err != nil {
		return err
	}
	console.Success(out, humanize.Comma(int64(n))+" records exported")
	return nil
}
