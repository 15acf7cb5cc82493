package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/chillouts/beheer-api/internal/chillout"
	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
	"github.com/chillouts/beheer-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered report ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type weeklyReporter interface {
	Weekly(ctx context.Context, q models.WeeklyQuery) (*chillout.WeeklyTotals, error)
	Stats(ctx context.Context, q models.StatsQuery) (*chillout.Stats, error)
}

// ExportService renders the weekly and statistics reports as CSV or PDF.
type ExportService struct {
	reports weeklyReporter
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(reports weeklyReporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Weekly renders the weekly klas overview.
func (s *ExportService) Weekly(ctx context.Context, q models.WeeklyQuery, format string) (*ExportFile, error) {
	weekly, err := s.reports.Weekly(ctx, q)
	if err != nil {
		return nil, err
	}

	dataset := weeklyDataset(weekly)
	title := fmt.Sprintf("Weekoverzicht week %d", weekly.WeekNumber)
	base := fmt.Sprintf("weekoverzicht-week-%d", weekly.WeekNumber)
	return s.render(dataset, title, base, format)
}

// Stats renders the statistics report.
func (s *ExportService) Stats(ctx context.Context, q models.StatsQuery, format string) (*ExportFile, error) {
	stats, err := s.reports.Stats(ctx, q)
	if err != nil {
		return nil, err
	}

	dataset := statsDataset(stats)
	return s.render(dataset, "Statistieken chill-outs", "statistieken", format)
}

func (s *ExportService) render(dataset export.Dataset, title, base, format string) (*ExportFile, error) {
	switch format {
	case ExportFormatCSV, "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Data: data}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func weeklyDataset(weekly *chillout.WeeklyTotals) export.Dataset {
	headers := append([]string{"Klas"}, chillout.Weekdays...)
	headers = append(headers, "Totaal")

	rows := make([]map[string]string, 0, len(weekly.Klassen))
	for _, klas := range weekly.Klassen {
		row := map[string]string{"Klas": klas}
		var total chillout.DayCell
		for _, label := range chillout.Weekdays {
			cell := weekly.PerKlas[klas][label]
			row[label] = formatCell(cell)
			total.Total += cell.Total
			total.VR += cell.VR
			total.VL += cell.VL
		}
		row["Totaal"] = formatCell(total)
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func statsDataset(stats *chillout.Stats) export.Dataset {
	headers := []string{"Klas", "Totaal", "VR", "VL", "Percentage"}
	rows := make([]map[string]string, 0, len(stats.ByKlas))
	for _, k := range stats.ByKlas {
		rows = append(rows, map[string]string{
			"Klas":       k.Klas,
			"Totaal":     strconv.Itoa(k.Total),
			"VR":         strconv.Itoa(k.VR),
			"VL":         strconv.Itoa(k.VL),
			"Percentage": strconv.Itoa(k.Percentage) + "%",
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func formatCell(cell chillout.DayCell) string {
	if cell.VR == 0 && cell.VL == 0 {
		return strconv.Itoa(cell.Total)
	}
	return fmt.Sprintf("%d (VR %d, VL %d)", cell.Total, cell.VR, cell.VL)
}
