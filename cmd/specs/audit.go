package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-specs/internal/audit"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check every specs.json for missing or incomplete records",
	Long: `Audit re-reads every persisted specs.json, prints a summary and writes the
full issue list to the issues report (ISSUES_REPORT, default specs-issues.json).
It never modifies a record and always exits zero.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationLenientConfig: "true"},
	RunE:        runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	auditor, err := audit.NewAuditor(logger, audit.Config{
		AssetsRoot: cfg.Assets.Root,
		Categories: cfg.Assets.Categories,
	}, repository.NewSpecStore(logger))
	if err != nil {
		logger.Error("audit.init_failed", "err", err)
		return nil
	}

	console.Info("Proofreading all specs.json files...")
	report, err := auditor.Run(cmd.Context())
	if err != nil {
		logger.Error("audit.failed", "err", err)
		return nil
	}

	reportPath := cfg.Audit.ReportPath
	if err := audit.WriteReport(reportPath, report); err != nil {
		logger.Error("audit.report.write_failed", "path", reportPath, "err", err)
		reportPath = ""
	}
	audit.Render(console, report, reportPath)
	return nil
}
