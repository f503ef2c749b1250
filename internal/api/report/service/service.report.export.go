package reportsvc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	dailySheet   = "Daily sales"
	paymentSheet = "Payment methods"
)

// XLSXContentType is the media type of ExportSalesXLSX output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSalesXLSX writes the sales summary of [from, to] as a workbook with one sheet
// of daily totals and one of payment method totals.
func (s *ReportService) ExportSalesXLSX(ctx context.Context, w io.Writer, from, to time.Time, storeID string) error {
	summary, err := s.SalesSummary(ctx, from, to, storeID)
	if err != nil {
		return err
	}
	f, err := salesWorkbook(summary)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.log.WithFields(map[string]interface{}{
		"from":     from.Format(dayLayout),
		"to":       to.Format(dayLayout),
		"store_id": storeID,
		"days":     len(summary.DailySales),
	}).Info("📊 [REPORT] Sales workbook exported")
	return nil
}

func salesWorkbook(summary *SalesSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(paymentSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{{"Date", "Total sales", "Receipts"}}
	for _, d := range summary.DailySales {
		rows = append(rows, []interface{}{d.Date, d.TotalSales.InexactFloat64(), d.ReceiptCount})
	}
	rows = append(rows, []interface{}{"Total", summary.TotalSales.InexactFloat64(), summary.TotalReceipts})
	if err := writeRows(f, dailySheet, rows, bold, money, "B"); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Date", "Method", "Total"}}
	for _, p := range summary.PaymentMethods {
		rows = append(rows, []interface{}{p.Date, p.Method, p.Total.InexactFloat64()})
	}
	if err := writeRows(f, paymentSheet, rows, bold, money, "C"); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// writeRows writes rows from A1 down, bolds the header and formats moneyCol.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, header, money int, moneyCol string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", header); err != nil {
		return err
	}
	if len(rows) > 1 {
		last := fmt.Sprintf("%s%d", moneyCol, len(rows))
		if err := f.SetCellStyle(sheet, moneyCol+"2", last, money); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "C", 16)
}
