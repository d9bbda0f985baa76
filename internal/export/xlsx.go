package export

import (
	"bytes"
	"fmt"

	"stocky/internal/analytics"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary   = "Summary"
	sheetInventory = "Inventory"
	sheetReorder   = "Reorder"
)

// BuildXLSX writes a workbook with summary, inventory and reorder sheets.
func BuildXLSX(report *analytics.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetInventory, sheetReorder} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EDE9FE"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Stock report", report.GeneratedAt.Format("2006-01-02 15:04")},
		{},
		{"Period", "Units sold", "Units received", "Revenue", "Profit", "Transactions"},
	}
	for _, period := range []analytics.PeriodSummary{report.Daily, report.Weekly} {
		summaryRows = append(summaryRows, []interface{}{
			period.Label,
			period.UnitsSold,
			period.UnitsReceived,
			period.Revenue.InexactFloat64(),
			period.Profit.InexactFloat64(),
			period.Transactions,
		})
	}
	summaryRows = append(summaryRows,
		[]interface{}{},
		[]interface{}{"Total turnover", report.Turnover},
		[]interface{}{"Total profit", report.Profit.InexactFloat64()},
	)
	if err := writeRows(f, sheetSummary, summaryRows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetSummary, "A3", "F3", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style summary header: %w", err)
	}

	inventoryRows := [][]interface{}{{"Item", "Category", "Supplier", "Contact", "Stock", "Minimum", "Buy price", "Low"}}
	for _, row := range report.Inventory {
		low := ""
		if row.Low {
			low = "LOW"
		}
		inventoryRows = append(inventoryRows, []interface{}{
			row.Item, row.Category, row.Supplier.Name, row.Supplier.Contact,
			row.Quantity, row.Minimum, row.BuyPrice.InexactFloat64(), low,
		})
	}
	if err := writeRows(f, sheetInventory, inventoryRows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetInventory, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style inventory header: %w", err)
	}

	reorderRows := [][]interface{}{{"Item", "On hand", "Total sold", "Suggested reorder"}}
	for _, s := range report.Reorder {
		reorderRows = append(reorderRows, []interface{}{s.Item, s.OnHand, s.TotalSold, s.Quantity})
	}
	if err := writeRows(f, sheetReorder, reorderRows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetReorder, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style reorder header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
