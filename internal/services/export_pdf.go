package services

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"schedulepro/internal/models"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Title", 70},
	{"Location", 50},
	{"Start", 40},
	{"End", 40},
	{"People", 22},
	{"Vehicles", 22},
	{"Equipment", 22},
}

// encodeBookingsPDF renders the bookings as a landscape A4 table.
func encodeBookingsPDF(bookings []*models.Booking, r ExportRange, generatedAt time.Time) ([]byte, error) {
	const margin = 10.0

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, "Bookings")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s to %s", r.From.UTC().Format(time.DateOnly), r.To.UTC().Format(time.DateOnly)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated "+generatedAt.UTC().Format(time.RFC1123))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	for _, b := range bookings {
		cells := []string{
			tr(b.Title),
			tr(deref(b.Location)),
			b.StartTime.UTC().Format("2006-01-02 15:04"),
			b.EndTime.UTC().Format("2006-01-02 15:04"),
			strconv.Itoa(len(b.People)),
			strconv.Itoa(len(b.Vehicles)),
			strconv.Itoa(len(b.Equipment)),
		}
		for i, col := range pdfColumns {
			align := "L"
			if i >= 4 {
				align = "C"
			}
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(7)
	}

	if len(bookings) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.Cell(0, 7, "No bookings in this range.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
