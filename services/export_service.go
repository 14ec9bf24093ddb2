package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/bracket-board/render"
	"github.com/Dosada05/bracket-board/storage"
)

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportDOT  ExportFormat = "dot"
	ExportSVG  ExportFormat = "svg"
)

var exportContentTypes = map[ExportFormat]string{
	ExportJSON: "application/json",
	ExportDOT:  "text/vnd.graphviz",
	ExportSVG:  "image/svg+xml",
}

type ExportInput struct {
	Formats []ExportFormat `json:"formats"`
}

type ExportResult struct {
	Format ExportFormat `json:"format"`
	Key    string       `json:"key"`
	URL    string       `json:"url"`
}

type ExportService interface {
	Export(ctx context.Context, tournamentID int, input ExportInput) ([]ExportResult, error)
}

type exportService struct {
	bracketService BracketService
	uploader       storage.FileUploader
	logger         *slog.Logger
}

// NewExportService создает сервис выгрузки сеток. uploader может быть nil,
// тогда выгрузка отключена.
func NewExportService(bracketService BracketService, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	return &exportService{
		bracketService: bracketService,
		uploader:       uploader,
		logger:         logger.With(slog.String("service", "export")),
	}
}

func (s *exportService) Export(ctx context.Context, tournamentID int, input ExportInput) ([]ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportsDisabled
	}

	formats, err := normalizeFormats(input.Formats)
	if err != nil {
		return nil, err
	}

	graph, err := s.bracketService.GetGraph(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	dot := render.DOT(graph, s.bracketService.Layout())

	results := make([]ExportResult, len(formats))
	g, gCtx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			var body []byte
			switch format {
			case ExportJSON:
				b, err := json.Marshal(graph)
				if err != nil {
					return fmt.Errorf("failed to encode bracket graph: %w", err)
				}
				body = b
			case ExportDOT:
				body = []byte(dot)
			case ExportSVG:
				b, err := render.SVG(gCtx, dot)
				if err != nil {
					return fmt.Errorf("failed to render bracket svg: %w", err)
				}
				body = b
			}

			key := fmt.Sprintf("brackets/%d/%s.%s", tournamentID, uuid.NewString(), format)
			uploaded, err := s.uploader.Upload(gCtx, key, exportContentTypes[format], bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("failed to upload %s export: %w", format, err)
			}
			results[i] = ExportResult{Format: format, Key: uploaded.Key, URL: uploaded.Location}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("bracket exported", slog.Int("tournament_id", tournamentID), slog.Int("files", len(results)))
	return results, nil
}

// normalizeFormats приводит форматы к нижнему регистру и убирает повторы.
// Пустой список означает все форматы.
func normalizeFormats(in []ExportFormat) ([]ExportFormat, error) {
	if len(in) == 0 {
		return []ExportFormat{ExportJSON, ExportDOT, ExportSVG}, nil
	}
	seen := make(map[ExportFormat]bool, len(in))
	out := make([]ExportFormat, 0, len(in))
	for _, f := range in {
		f = ExportFormat(strings.ToLower(strings.TrimSpace(string(f))))
		if _, ok := exportContentTypes[f]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}
