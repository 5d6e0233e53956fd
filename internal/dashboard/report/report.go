package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
)

// Input holds everything a dashboard summary report needs: one site-year's
// combined series plus its yearly breakdown.
type Input struct {
	Site        dashboard.Site
	Year        int
	GeneratedAt time.Time
	Series      dashboard.CombinedSeries
	Breakdown   dashboard.Breakdown
}

func (in Input) validate() error {
	if _, ok := dashboard.ParseSite(string(in.Site)); !ok {
		return errors.New("report: invalid site")
	}
	if in.Year <= 0 {
		return errors.New("report: invalid year")
	}
	return nil
}

func (in Input) totals() (opened, closed int) {
	for _, point := range in.Series {
		opened += point.OpeningRate
		closed += point.ClosingRate
	}
	return opened, closed
}

// BuildDashboardPDF renders a dashboard summary PDF.
func BuildDashboardPDF(in Input) ([]byte, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	opened, closed := in.totals()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Service Request Dashboard")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Site: %s", in.Site))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Year: %d", in.Year))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", in.GeneratedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Requests opened: %d", opened))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Requests closed: %d", closed))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Opened", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Closed", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, point := range in.Series {
		pdf.CellFormat(50, 6, point.Date.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%d", point.OpeningRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%d", point.ClosingRate), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(in.Breakdown.MainCategory) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(90, 6, "Category", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Requests", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, entry := range in.Breakdown.MainCategory {
			pdf.CellFormat(90, 6, entry.Category, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, fmt.Sprintf("%d", entry.Count), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildDashboardXLSX renders a dashboard summary workbook.
func BuildDashboardXLSX(in Input) ([]byte, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	opened, closed := in.totals()

	f := excelize.NewFile()
	summarySheet := "summary"
	seriesSheet := "series"
	categoriesSheet := "categories"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(seriesSheet)
	f.NewSheet(categoriesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Service Request Dashboard")
	_ = f.SetCellValue(summarySheet, "A3", "Site")
	_ = f.SetCellValue(summarySheet, "B3", string(in.Site))
	_ = f.SetCellValue(summarySheet, "A4", "Year")
	_ = f.SetCellValue(summarySheet, "B4", in.Year)
	_ = f.SetCellValue(summarySheet, "A5", "Generated")
	_ = f.SetCellValue(summarySheet, "B5", in.GeneratedAt.UTC().Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A6", "Requests opened")
	_ = f.SetCellValue(summarySheet, "B6", opened)
	_ = f.SetCellValue(summarySheet, "A7", "Requests closed")
	_ = f.SetCellValue(summarySheet, "B7", closed)

	_ = f.SetCellValue(seriesSheet, "A1", "Date")
	_ = f.SetCellValue(seriesSheet, "B1", "Opened")
	_ = f.SetCellValue(seriesSheet, "C1", "Closed")
	for i, point := range in.Series {
		row := i + 2
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("A%d", row), point.Date.String())
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("B%d", row), point.OpeningRate)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("C%d", row), point.ClosingRate)
	}

	_ = f.SetCellValue(categoriesSheet, "A1", "Category")
	_ = f.SetCellValue(categoriesSheet, "B1", "Requests")
	for i, entry := range in.Breakdown.MainCategory {
		row := i + 2
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("A%d", row), entry.Category)
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("B%d", row), entry.Count)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
