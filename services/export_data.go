package services

// ExportRow is a single printable line of a quote export.
type ExportRow struct {
	Level     int // 0 = top-level item, 1 = child
	Label     string
	Qty       float64
	Price     string // formatted, or "N/A" when unset
	LineTotal string
}

// ExportSection is one section block of a quote export.
type ExportSection struct {
	Name       string
	Notes      string
	Rows       []ExportRow
	SubtotalEx float64
}

// QuoteExportData holds everything the Excel and PDF generators need.
type QuoteExportData struct {
	Title           string
	CreatedDate     string
	Sections        []ExportSection
	TotalEx         float64
	DiscountPercent float64
	DiscountedEx    float64
	GST             float64
	GrandInclGST    float64
}

// BuildExportData projects a basket into the flat structure consumed by
// GenerateExcel and GeneratePDF.
func BuildExportData(title, createdDate string, b *Basket) QuoteExportData {
	report := BuildReport(b)

	data := QuoteExportData{
		Title:           title,
		CreatedDate:     createdDate,
		TotalEx:         report.Totals.GrandRawEx,
		DiscountPercent: b.DiscountPercent,
		DiscountedEx:    report.Totals.GrandDiscountedEx,
		GST:             report.Totals.GST,
		GrandInclGST:    report.Totals.GrandInclGST,
	}

	for si := range report.Sections {
		sec := &report.Sections[si]
		es := ExportSection{
			Name:       sec.Name,
			Notes:      sec.Notes,
			SubtotalEx: sec.Totals.RawEx,
		}
		for gi := range sec.Groups {
			group := &sec.Groups[gi]
			es.Rows = append(es.Rows, exportRow(group.Parent, 0))
			for ci := range group.Children {
				es.Rows = append(es.Rows, exportRow(group.Children[ci], 1))
			}
		}
		data.Sections = append(data.Sections, es)
	}

	return data
}

func exportRow(it Item, level int) ExportRow {
	qty := it.Quantity
	if qty < 0 {
		qty = 0
	}
	row := ExportRow{
		Level:     level,
		Label:     it.Label,
		Qty:       qty,
		Price:     "N/A",
		LineTotal: "N/A",
	}
	if it.HasPrice {
		row.Price = FormatAUD(it.Price)
		row.LineTotal = FormatAUD(LineTotal(qty, it.Price))
	}
	return row
}
