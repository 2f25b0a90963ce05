// Package export renders bookings into Excel workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bookbnb/internal/booking"
	"bookbnb/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{"Property", "Location", "Check-in", "Check-out", "Nights", "Total", "Status", "Booked at"}

// Exporter writes booking workbooks and keeps a copy under dir when dir is set.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
	now    func() time.Time
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Exporter{dir: dir, logger: logger, now: time.Now}
}

// Bookings builds the workbook and returns its file name and bytes.
func (e *Exporter) Bookings(user *models.User, bookings []models.Booking) (string, []byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	title := "My bookings"
	if name := user.FullName(); name != "" {
		title = fmt.Sprintf("Bookings of %s", name)
	}
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s)", title, e.now().Format("02.01.2006 15:04")))

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	e.writeHeaders(f)
	total := e.writeRows(f, bookings)

	footer := len(bookings) + 3
	labelCell, _ := excelize.CoordinatesToCellName(5, footer)
	totalCell, _ := excelize.CoordinatesToCellName(6, footer)
	_ = f.SetCellValue(sheetName, labelCell, "Total booked")
	_ = f.SetCellValue(sheetName, totalCell, total.String())
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheetName, labelCell, totalCell, boldStyle)

	_ = f.SetColWidth(sheetName, "A", "B", 28)
	_ = f.SetColWidth(sheetName, "C", lastCol, 14)
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("error writing workbook: %w", err)
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", e.now().Format("2006-01-02_150405"))
	data := buf.Bytes()
	e.save(fileName, data)
	return fileName, data, nil
}

func (e *Exporter) writeHeaders(f *excelize.File) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

// writeRows fills one row per booking and returns the total of the active ones.
func (e *Exporter) writeRows(f *excelize.File, bookings []models.Booking) models.Money {
	cancelledStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#C00000"},
	})
	bookedStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#00703C"},
	})

	var total models.Money
	for i, b := range bookings {
		row := i + 3
		var nights int64
		if b.EndDate.After(b.StartDate) {
			nights = booking.Nights(b.StartDate, b.EndDate)
		}
		values := []any{
			b.Property.Title,
			b.Property.Location,
			formatDate(b.StartDate),
			formatDate(b.EndDate),
			nights,
			b.TotalPrice.String(),
			b.Status,
			formatDate(b.CreatedAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		statusCell, _ := excelize.CoordinatesToCellName(7, row)
		if b.IsCancelled() {
			_ = f.SetCellStyle(sheetName, statusCell, statusCell, cancelledStyle)
			continue
		}
		_ = f.SetCellStyle(sheetName, statusCell, statusCell, bookedStyle)
		total += b.TotalPrice
	}
	return total
}

func (e *Exporter) save(fileName string, data []byte) {
	if e.dir == "" {
		return
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.logger.Warn().Err(err).Str("dir", e.dir).Msg("Failed to create export directory")
		return
	}
	path := filepath.Join(e.dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.logger.Warn().Err(err).Str("file_path", path).Msg("Failed to save export")
		return
	}
	e.logger.Info().Str("file_path", path).Msg("Excel file created")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}
