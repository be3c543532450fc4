package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
)

var reportColumns = []struct {
	title string
	width float64
	align string
}{
	{"Staff", 70, "L"},
	{"Worked", 30, "R"},
	{"Rate", 25, "R"},
	{"Estimated pay", 35, "R"},
	{"Status", 30, "C"},
}

// PayrollReport writes the current week's payroll as a one page PDF.
func (s *TimesheetService) PayrollReport(ctx context.Context, w io.Writer, restaurant string) error {
	rows, err := s.WeeklyPayroll(ctx)
	if err != nil {
		return err
	}
	return RenderPayrollPDF(w, restaurant, WeekStart(s.Now(), s.Location), rows)
}

// RenderPayrollPDF lays out weekly summaries as a table, totals last.
func RenderPayrollPDF(w io.Writer, restaurant string, weekStart time.Time, rows []WeeklySummary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s payroll", restaurant), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(restaurant), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	weekEnd := weekStart.AddDate(0, 0, 6)
	pdf.CellFormat(0, 7, fmt.Sprintf("Weekly payroll %s to %s", weekStart.Format(models.DateLayout), weekEnd.Format(models.DateLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	var minutes int
	var pay float64
	for _, row := range rows {
		status := ""
		if row.IsWorking {
			status = "On shift"
		}
		cells := []string{
			tr(row.FullName),
			row.Duration,
			utils.FormatAmount(row.HourlyRate),
			row.EstimatedPay,
			status,
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
		minutes += row.Minutes
		pay += EstimatePay(row.Minutes, row.HourlyRate)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(reportColumns[0].width, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(reportColumns[1].width, 8, FormatMinutes(minutes), "1", 0, "R", true, 0, "")
	pdf.CellFormat(reportColumns[2].width, 8, "", "1", 0, "R", true, 0, "")
	pdf.CellFormat(reportColumns[3].width, 8, utils.FormatAmount(pay), "1", 0, "R", true, 0, "")
	pdf.CellFormat(reportColumns[4].width, 8, "", "1", 1, "C", true, 0, "")

	return pdf.Output(w)
}
