package services

import (
	"strconv"
	"strings"
)

// CSVHeader is the canonical column order of the quote CSV grid. Import
// validates against it exactly.
var CSVHeader = []string{"Section", "Item", "Quantity", "Price", "Line Total"}

// Fixed labels of the trailing summary rows, in emitted order.
const (
	SummaryTotalEx       = "Total (Ex GST)"
	SummaryDiscount      = "Discount (%)"
	SummaryGrandTotalEx  = "Grand Total (Ex GST)"
	SummaryGST           = "GST"
	SummaryGrandTotalInc = "Grand Total (Incl. GST)"
)

// childMarker prefixes child-item cells. A literal label beginning with the
// marker is escaped with a leading backslash so import does not mistake it
// for a child row.
const childMarker = "- "

// escapeItemLabel protects a literal label that would read as a child
// marker on import.
func escapeItemLabel(label string) string {
	if strings.HasPrefix(label, childMarker) || strings.HasPrefix(label, "\\"+childMarker) {
		return "\\" + label
	}
	return label
}

// csvQuote double-quotes a cell, doubling internal quotes. Every cell of
// the export is quoted, including numbers.
func csvQuote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// writeCSVRow appends one fully-quoted row.
func writeCSVRow(sb *strings.Builder, cells ...string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(csvQuote(c))
	}
	sb.WriteByte('\n')
}

// formatCSVQty renders a quantity without trailing zeros (2 -> "2",
// 2.5 -> "2.5"), matching the historical export format.
func formatCSVQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

// ExportCSV serializes a basket into the canonical 5-column CSV grid: one
// row per item (children marked with "- "), a positional "Section N Notes"
// row per section with notes, and the five trailing summary rows. The
// output is bit-exact against the documented contract; all cells are
// double-quoted.
func ExportCSV(b *Basket) []byte {
	report := BuildReport(b)

	var sb strings.Builder
	writeCSVRow(&sb, CSVHeader...)

	for si := range report.Sections {
		sec := &report.Sections[si]
		for gi := range sec.Groups {
			group := &sec.Groups[gi]
			writeItemRow(&sb, sec.Name, group.Parent, false)
			for ci := range group.Children {
				writeItemRow(&sb, sec.Name, group.Children[ci], true)
			}
		}
		if notes := strings.TrimSpace(sec.Notes); notes != "" {
			writeCSVRow(&sb, "Section "+strconv.Itoa(si+1)+" Notes", notes, "", "", "")
		}
	}

	t := report.Totals
	writeCSVRow(&sb, SummaryTotalEx, "", "", "", FormatCurrency(t.GrandRawEx))
	writeCSVRow(&sb, SummaryDiscount, "", "", "", FormatPercent(b.DiscountPercent))
	writeCSVRow(&sb, SummaryGrandTotalEx, "", "", "", FormatCurrency(t.GrandDiscountedEx))
	writeCSVRow(&sb, SummaryGST, "", "", "", FormatCurrency(t.GST))
	writeCSVRow(&sb, SummaryGrandTotalInc, "", "", "", FormatCurrency(t.GrandInclGST))

	return []byte(sb.String())
}

// writeItemRow emits one item row. An unset price renders as N/A in both
// the Price and Line Total cells; it is never silently coerced to 0 here.
func writeItemRow(sb *strings.Builder, sectionName string, it Item, child bool) {
	qty := it.Quantity
	if qty < 0 {
		qty = 0
	}

	label := escapeItemLabel(it.Label)
	if child {
		label = childMarker + label
	}

	price := "N/A"
	lineTotal := "N/A"
	if it.HasPrice {
		price = FormatCurrency(it.Price)
		lineTotal = FormatCurrency(LineTotal(qty, it.Price))
	}

	writeCSVRow(sb, sectionName, label, formatCSVQty(qty), price, lineTotal)
}
