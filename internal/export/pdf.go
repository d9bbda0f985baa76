package export

import (
	"bytes"
	"fmt"

	"stocky/internal/analytics"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the report as a single A4 document.
func BuildPDF(report *analytics.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 15.0
	marginY := 15.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(76, 29, 149)
	pdf.Cell(0, 10, "STOCKY REPORT")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("02-Jan-2006 15:04")))
	pdf.Ln(10)

	// Period summaries
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	writeTable(pdf,
		[]string{"Period", "Sold", "Received", "Revenue", "Profit", "Records"},
		[]float64{40, 25, 25, 30, 30, 30},
		[][]string{periodRow(report.Daily), periodRow(report.Weekly)},
	)
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total turnover: %d units    Total profit: %s", report.Turnover, report.Profit.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Inventory")
	pdf.Ln(8)
	inventory := make([][]string, 0, len(report.Inventory))
	for _, row := range report.Inventory {
		status := ""
		if row.Low {
			status = "LOW"
		}
		inventory = append(inventory, []string{
			row.Item, row.Category, row.Supplier.Name,
			fmt.Sprintf("%d", row.Quantity), fmt.Sprintf("%d", row.Minimum), status,
		})
	}
	writeTable(pdf,
		[]string{"Item", "Category", "Supplier", "Stock", "Min", "Status"},
		[]float64{45, 35, 45, 20, 20, 15},
		inventory,
	)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Reorder suggestions")
	pdf.Ln(8)
	if len(report.Reorder) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "Nothing to reorder.")
		pdf.Ln(6)
	} else {
		reorder := make([][]string, 0, len(report.Reorder))
		for _, s := range report.Reorder {
			reorder = append(reorder, []string{
				s.Item, fmt.Sprintf("%d", s.OnHand), fmt.Sprintf("%d", s.TotalSold), fmt.Sprintf("%d", s.Quantity),
			})
		}
		writeTable(pdf,
			[]string{"Item", "On hand", "Total sold", "Suggested"},
			[]float64{60, 40, 40, 40},
			reorder,
		)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func periodRow(p analytics.PeriodSummary) []string {
	return []string{
		p.Label,
		fmt.Sprintf("%d", p.UnitsSold),
		fmt.Sprintf("%d", p.UnitsReceived),
		p.Revenue.StringFixed(2),
		p.Profit.StringFixed(2),
		fmt.Sprintf("%d", p.Transactions),
	}
}

func writeTable(pdf *gofpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(237, 233, 254)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			align := "L"
			if i > 0 && i >= len(row)-3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(7)
	}
}
