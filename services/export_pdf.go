package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF renders the quote as a PDF document and returns the raw bytes.
func GeneratePDF(data QuoteExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)

	for _, sec := range data.Sections {
		addSectionHeader(m, sec.Name)
		addItemTableHeader(m)
		for _, r := range sec.Rows {
			addItemRow(m, r)
		}
		addSectionFooter(m, sec)
	}

	addQuoteSummary(m, data)
	addGeneratedFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds the quote title and created date.
func addQuoteHeader(m core.Maroto, data QuoteExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	if data.CreatedDate != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
						Size:  9,
						Align: align.Right,
						Color: &props.Color{Red: 80, Green: 80, Blue: 80},
					}),
				),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addSectionHeader adds a banner row with the section name.
func addSectionHeader(m core.Maroto, name string) {
	bannerBg := &props.Color{Red: 68, Green: 114, Blue: 196}
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(name, props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: &props.Color{Red: 255, Green: 255, Blue: 255},
				}),
			).WithStyle(&props.Cell{BackgroundColor: bannerBg}),
		),
	)
}

// addItemTableHeader adds the column header row for a section's item table.
func addItemTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(
				text.New("Item", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Quantity", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Price", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Line Total", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addItemRow adds a single item line, styled by indent level.
func addItemRow(m core.Maroto, r ExportRow) {
	var cellStyle *props.Cell
	var textStyle fontstyle.Type = fontstyle.Normal
	labelPrefix := ""

	if r.Level == 0 {
		textStyle = fontstyle.Bold
	} else {
		labelPrefix = "  - "
		bg := &props.Color{Red: 245, Green: 245, Blue: 245}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  8,
		Style: textStyle,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colLabel := col.New(6).Add(text.New(labelPrefix+r.Label, leftText))
	colQty := col.New(2).Add(text.New(FormatQty(r.Qty), rightText))
	colPrice := col.New(2).Add(text.New(r.Price, rightText))
	colTotal := col.New(2).Add(text.New(r.LineTotal, rightText))

	if cellStyle != nil {
		colLabel = colLabel.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colPrice = colPrice.WithStyle(cellStyle)
		colTotal = colTotal.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(6).Add(
			colLabel,
			colQty,
			colPrice,
			colTotal,
		),
	)
}

// addSectionFooter adds the section notes and the section subtotal.
func addSectionFooter(m core.Maroto, sec ExportSection) {
	if strings.TrimSpace(sec.Notes) != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New("Notes: "+sec.Notes, props.Text{
						Size:  7,
						Style: fontstyle.Italic,
						Align: align.Left,
						Color: &props.Color{Red: 89, Green: 89, Blue: 89},
					}),
				),
			),
		)
	}

	subtotalBg := &props.Color{Red: 235, Green: 235, Blue: 235}
	subtotalCell := &props.Cell{BackgroundColor: subtotalBg}
	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(
				text.New("Section Total (Ex GST)", props.Text{
					Size:  8,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			).WithStyle(subtotalCell),
			col.New(4).Add(
				text.New(FormatAUD(sec.SubtotalEx), props.Text{
					Size:  8,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			).WithStyle(subtotalCell),
		),
	)
	m.AddRows(row.New(4))
}

// addQuoteSummary adds the grand totals block at the bottom of the PDF.
func addQuoteSummary(m core.Maroto, data QuoteExportData) {
	m.AddRows(row.New(5))

	summaryBg := &props.Color{Red: 252, Green: 228, Blue: 214}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := labelStyle

	lines := []struct {
		label string
		value string
	}{
		{"Total (Ex GST)", FormatAUD(data.TotalEx)},
		{fmt.Sprintf("Discount (%s%%)", FormatPercent(data.DiscountPercent)), FormatAUD(RoundCurrency(data.TotalEx - data.DiscountedEx))},
		{"Grand Total (Ex GST)", FormatAUD(data.DiscountedEx)},
		{"GST", FormatAUD(data.GST)},
		{"Grand Total (Incl. GST)", FormatAUD(data.GrandInclGST)},
	}

	for _, line := range lines {
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(
					text.New(line.label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(line.value, valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}
}

// addGeneratedFooter adds the generated-date line at the bottom.
func addGeneratedFooter(m core.Maroto, data QuoteExportData) {
	m.AddRows(row.New(5))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
