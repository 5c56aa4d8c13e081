package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel renders the quote as a styled spreadsheet and returns the
// XLSX file contents.
func GenerateExcel(data QuoteExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quote"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}
	childStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10, Italic: true},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Indent: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create child style: %w", err)
	}
	notesStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 9, Italic: true, Color: "595959"},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("create notes style: %w", err)
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FCE4D6"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}

	f.SetColWidth(sheet, "A", "A", 46)
	f.SetColWidth(sheet, "B", "B", 10)
	f.SetColWidth(sheet, "C", "D", 14)

	row := 1
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(data.Title))
	f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), titleStyle)
	row++

	if data.CreatedDate != "" {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Created: "+data.CreatedDate)
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
		row++
	}
	row++

	for _, sec := range data.Sections {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(sec.Name))
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), sectionStyle)
		row++

		headers := []string{"Item", "Quantity", "Price", "Line Total"}
		for i, h := range headers {
			cell := fmt.Sprintf("%c%d", 'A'+i, row)
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		row++

		for _, ir := range sec.Rows {
			style := cellStyle
			label := ir.Label
			if ir.Level > 0 {
				style = childStyle
				label = "- " + label
			}
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(label))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), FormatQty(ir.Qty))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ir.Price)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), ir.LineTotal)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), style)
			row++
		}

		if strings.TrimSpace(sec.Notes) != "" {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Notes: "+sanitizeExcelCell(sec.Notes))
			f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), notesStyle)
			row++
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Section Total (Ex GST)")
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), FormatAUD(sec.SubtotalEx))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), summaryStyle)
		row++
		row++
	}

	summary := []struct {
		label string
		value string
	}{
		{"Total (Ex GST)", FormatAUD(data.TotalEx)},
		{"Discount", FormatPercent(data.DiscountPercent) + "%"},
		{"Grand Total (Ex GST)", FormatAUD(data.DiscountedEx)},
		{"GST", FormatAUD(data.GST)},
		{"Grand Total (Incl. GST)", FormatAUD(data.GrandInclGST)},
	}
	for _, s := range summary {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.label)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.value)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), summaryStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "B0B0B0", Style: 1},
		{Type: "right", Color: "B0B0B0", Style: 1},
		{Type: "top", Color: "B0B0B0", Style: 1},
		{Type: "bottom", Color: "B0B0B0", Style: 1},
	}
}

// sanitizeExcelCell neutralises strings that spreadsheet apps would
// interpret as formulas.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
