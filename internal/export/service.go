package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/ingest"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
)

const sheet = "Specs"

type Config struct {
	AssetsRoot string
	Categories []string
}

// Service produces an XLSX catalog of every persisted specs.json.
type Service struct {
	cfg     Config
	scanner *ingest.Scanner
	store   *repository.SpecStore
	logger  *slog.Logger
}

func NewService(cfg Config, store *repository.SpecStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, scanner: ingest.NewScanner(logger), store: store, logger: logger}
}

// Row is one exported record.
type Row struct {
	Item entity.Item
	Spec entity.ExtractedSpec
}

// Rows collects the records in category then slide order. Items without a
// readable record are left out.
func (s *Service) Rows(ctx context.Context) ([]Row, error) {
	var rows []Row
	for _, category := range s.cfg.Categories {
		items, err := s.scanner.Items(s.cfg.AssetsRoot, category)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", category, err)
		}
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			spec, err := s.store.Read(item)
			if err != nil {
				if !repository.IsMissing(err) {
					s.logger.Warn("export.record.unreadable", "item", item.Label(), "err", err)
				}
				continue
			}
			rows = append(rows, Row{Item: item, Spec: *spec})
		}
	}
	return rows, nil
}

// ExportSpecsXLSX returns the workbook bytes and the number of data rows.
func (s *Service) ExportSpecsXLSX(ctx context.Context) ([]byte, int, error) {
	start := time.Now()

	recs, err := s.Rows(ctx)
	if err != nil {
		return nil, 0, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, 0, err
	}

	headers := []string{
		"Category",
		"Slide",
		"Style #",
		"Description",
		"Technique",
		"Content",
		"Size",
		"Season",
		"Theme",
		"Country",
		"Specs Path",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Item.Category)
		write(2, r.Item.Slide)
		for i, fld := range entity.AllFields {
			write(3+i, r.Spec.Get(fld))
		}
		write(3+len(entity.AllFields), r.Item.SpecsPath)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14) // category
	_ = f.SetColWidth(sheet, "B", "B", 8)  // slide
	_ = f.SetColWidth(sheet, "C", "C", 18) // style
	_ = f.SetColWidth(sheet, "D", "D", 40) // description
	_ = f.SetColWidth(sheet, "E", "J", 18)
	_ = f.SetColWidth(sheet, "K", "K", 60) // path
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), len(recs), nil
}

// WriteFile exports to path, replacing any previous file.
func (s *Service) WriteFile(ctx context.Context, path string) (int, error) {
	b, n, err := s.ExportSpecsXLSX(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
