package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

var exportHeader = []string{
	"report_date",
	"total_orders",
	"completed_orders",
	"cancelled_orders",
	"total_revenue_cents",
	"total_discount_cents",
	"total_tax_cents",
	"average_order_value_cents",
}

func exportRow(summary models.DailySummary) []string {
	return []string{
		summary.ReportDate.Format("2006-01-02"),
		fmt.Sprintf("%d", summary.TotalOrders),
		fmt.Sprintf("%d", summary.CompletedOrders),
		fmt.Sprintf("%d", summary.CancelledOrders),
		fmt.Sprintf("%d", summary.TotalRevenueCents),
		fmt.Sprintf("%d", summary.TotalDiscountCents),
		fmt.Sprintf("%d", summary.TotalTaxCents),
		fmt.Sprintf("%d", summary.AverageOrderValueCents),
	}
}

func (s *service) ExportSummariesCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	rows, err := s.SummaryRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for _, summary := range rows {
		if err := writer.Write(exportRow(summary)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return buf.Bytes(), nil
}

const xlsxSheet = "Daily Summaries"

func (s *service) ExportSummariesXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	rows, err := s.SummaryRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(xlsxSheet)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create sheet")
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "drop default sheet")
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve header cell")
		}
		if err := file.SetCellValue(xlsxSheet, cell, title); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write header cell")
		}
	}

	for i, summary := range rows {
		values := []any{
			summary.ReportDate.Format("2006-01-02"),
			summary.TotalOrders,
			summary.CompletedOrders,
			summary.CancelledOrders,
			summary.TotalRevenueCents,
			summary.TotalDiscountCents,
			summary.TotalTaxCents,
			summary.AverageOrderValueCents,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cell")
			}
			if err := file.SetCellValue(xlsxSheet, cell, value); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write cell")
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize workbook")
	}
	return buf.Bytes(), nil
}
