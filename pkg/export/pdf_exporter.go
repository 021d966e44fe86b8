package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders queue rosters into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a one-table PDF titled with the subject name.
func (e *PDFExporter) Render(roster Roster) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Queue: %s", roster.Subject), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	widths := []float64{15, 115, 60}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range rosterHeaders {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range roster.Rows {
		pdf.CellFormat(widths[0], 7, strconv.Itoa(row.Position), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.Student, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[2], 7, row.JoinedAt, "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
