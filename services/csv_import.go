package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MaxImportIssues bounds how many issues are surfaced to the user. All
// issues are still collected so tests can assert on the full set.
const MaxImportIssues = 5

// ImportIssue is one row-numbered validation problem. Any issue fails the
// whole import; nothing is applied.
type ImportIssue struct {
	Row     int
	Message string
}

func (i ImportIssue) String() string {
	return fmt.Sprintf("Row %d: %s", i.Row, i.Message)
}

// ImportSummary counts what a successful import reconstructed.
type ImportSummary struct {
	Sections int
	Parents  int
	Children int
	Notes    int
}

// ImportResult is the outcome of parsing a quote CSV. Basket is nil
// whenever Issues is non-empty: the import is all-or-nothing. Warnings
// carry recovered integrity problems (duplicate titles, orphans) that did
// not fail the import.
type ImportResult struct {
	Basket   *Basket
	Summary  ImportSummary
	Issues   []ImportIssue
	Warnings []IntegrityWarning
}

// SurfacedIssues returns at most MaxImportIssues formatted messages.
func (r *ImportResult) SurfacedIssues() []string {
	n := len(r.Issues)
	if n > MaxImportIssues {
		n = MaxImportIssues
	}
	out := make([]string, 0, n)
	for _, issue := range r.Issues[:n] {
		out = append(out, issue.String())
	}
	return out
}

var notesRowPattern = regexp.MustCompile(`^Section\s+(\d+)\s+Notes$`)

// summaryRowLabels recognizes the trailing summary rows so they are
// diverted to discount state instead of becoming basket items.
var summaryRowLabels = map[string]bool{
	SummaryTotalEx:       true,
	SummaryDiscount:      true,
	SummaryGrandTotalEx:  true,
	SummaryGST:           true,
	SummaryGrandTotalInc: true,
}

type pendingNote struct {
	text string
	row  int
}

// ImportCSV parses the canonical 5-column quote CSV back into a basket.
//
// The header row must match CSVHeader exactly (a UTF-8 BOM on the first
// cell is tolerated). Blank rows are skipped. Summary rows set the
// discount; "Section N Notes" rows attach notes by 1-based position; every
// other row needs a non-empty Section cell, and an Item cell starting with
// the unescaped "- " marker nests the line under the most recent top-level
// item of the same section. Numeric cells are parsed after stripping
// currency symbols, commas and whitespace; "N/A" in the Price column means
// the price is unset. Of the summary rows only "Discount (%)" feeds back
// into the basket: a grand total override is reconstructed from that
// two-decimal percent, not from the "Grand Total (Ex GST)" row, so an
// overridden total can come back a cent off.
func ImportCSV(r io.Reader) *ImportResult {
	result := &ImportResult{}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		result.Issues = append(result.Issues, ImportIssue{Row: 1, Message: fmt.Sprintf("Unable to parse CSV: %v", err)})
		return result
	}

	headerIssue := ImportIssue{Row: 1, Message: fmt.Sprintf("Header must be %q", strings.Join(CSVHeader, ","))}
	if len(rows) == 0 {
		result.Issues = append(result.Issues, headerIssue)
		return result
	}
	header := append([]string(nil), rows[0]...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if len(header) != len(CSVHeader) {
		result.Issues = append(result.Issues, headerIssue)
		return result
	}
	for i := range CSVHeader {
		if header[i] != CSVHeader[i] {
			result.Issues = append(result.Issues, headerIssue)
			return result
		}
	}

	basket := NewBasket()
	basket.Sections = nil

	// Indexes, not pointers: basket.Sections grows while parsing.
	sectionByTitle := map[string]int{}
	lastParentBySection := map[string]string{}
	pendingNotes := map[int]pendingNote{}
	nextSectionID := 0
	nextItemID := 0

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1

		nonEmpty := false
		for c := 0; c < len(row) && c < len(CSVHeader); c++ {
			if strings.TrimSpace(row[c]) != "" {
				nonEmpty = true
				break
			}
		}
		if !nonEmpty {
			continue
		}

		cell := func(c int) string {
			if c < len(row) {
				return row[c]
			}
			return ""
		}

		sectionCell := strings.TrimSpace(cell(0))

		if summaryRowLabels[sectionCell] {
			if sectionCell == SummaryDiscount {
				if raw := strings.TrimSpace(cell(4)); raw != "" {
					if disc, err := ParseNumber(raw); err == nil {
						basket.DiscountPercent = ClampPercent(disc)
					}
				}
			}
			continue
		}

		if m := notesRowPattern.FindStringSubmatch(sectionCell); m != nil {
			idx, _ := strconv.Atoi(m[1])
			if idx > 0 {
				if text := strings.TrimSpace(cell(1)); text != "" {
					pendingNotes[idx] = pendingNote{text: text, row: rowNumber}
				}
			}
			continue
		}

		if sectionCell == "" {
			result.Issues = append(result.Issues, ImportIssue{Row: rowNumber, Message: "Section is required"})
			continue
		}

		secIdx, ok := sectionByTitle[sectionCell]
		if !ok {
			nextSectionID++
			name := sectionCell
			// Titles that collide case-insensitively with an earlier
			// section are renamed deterministically rather than merged.
			for n := 2; nameCollides(basket, name); n++ {
				name = fmt.Sprintf("%s (%d)", sectionCell, n)
			}
			if name != sectionCell {
				result.Warnings = append(result.Warnings, IntegrityWarning{
					Code:    "duplicate_section",
					Message: fmt.Sprintf("Section %q renamed to %q to keep names unique", sectionCell, name),
				})
			}
			basket.Sections = append(basket.Sections, Section{
				ID:   fmt.Sprintf("sec-%d", nextSectionID),
				Name: name,
			})
			secIdx = len(basket.Sections) - 1
			sectionByTitle[sectionCell] = secIdx
		}
		sec := &basket.Sections[secIdx]

		label := strings.TrimSpace(cell(1))
		escaped := false
		// Mirror of escapeItemLabel: strip one backslash when the remainder
		// still reads as a marker, so labels beginning "- " or `\- ` round-trip.
		if strings.HasPrefix(label, "\\") {
			rest := label[1:]
			if strings.HasPrefix(rest, childMarker) || strings.HasPrefix(rest, "\\"+childMarker) {
				escaped = true
				label = rest
			}
		}
		isChild := false
		if !escaped && strings.HasPrefix(label, childMarker) {
			isChild = true
			label = label[len(childMarker):]
		}

		qty, qtyErr := ParseNumber(cell(2))
		if qtyErr != nil {
			result.Issues = append(result.Issues, ImportIssue{Row: rowNumber, Message: "Quantity " + qtyErr.Error()})
		}

		priceCell := strings.TrimSpace(cell(3))
		price := 0.0
		hasPrice := false
		if priceCell != "" && !strings.EqualFold(priceCell, "N/A") {
			parsed, priceErr := ParseNumber(priceCell)
			if priceErr != nil {
				result.Issues = append(result.Issues, ImportIssue{Row: rowNumber, Message: "Price " + priceErr.Error()})
			} else {
				price = parsed
				hasPrice = true
			}
		}

		nextItemID++
		item := Item{
			ID:       fmt.Sprintf("item-%d", nextItemID),
			Label:    label,
			Quantity: qty,
			Price:    price,
			HasPrice: hasPrice,
		}

		if isChild {
			parentID := lastParentBySection[sectionCell]
			if parentID == "" {
				result.Issues = append(result.Issues, ImportIssue{
					Row:     rowNumber,
					Message: fmt.Sprintf("Child row without a parent in section %q", sectionCell),
				})
				continue
			}
			item.ParentID = parentID
			item.IsChild = true
			sec.Items = append(sec.Items, item)
			result.Summary.Children++
		} else {
			sec.Items = append(sec.Items, item)
			lastParentBySection[sectionCell] = item.ID
			result.Summary.Parents++
		}
	}

	noteIndexes := make([]int, 0, len(pendingNotes))
	for idx := range pendingNotes {
		noteIndexes = append(noteIndexes, idx)
	}
	sort.Ints(noteIndexes)
	for _, idx := range noteIndexes {
		note := pendingNotes[idx]
		if idx >= 1 && idx <= len(basket.Sections) {
			basket.Sections[idx-1].Notes = note.text
			result.Summary.Notes++
		} else {
			result.Issues = append(result.Issues, ImportIssue{
				Row:     note.row,
				Message: fmt.Sprintf("Notes row references missing Section %d", idx),
			})
		}
	}

	if len(basket.Sections) == 0 {
		result.Issues = append(result.Issues, ImportIssue{Row: len(rows), Message: "No section data found in CSV"})
	}

	if len(result.Issues) > 0 {
		return result
	}

	result.Summary.Sections = len(basket.Sections)
	result.Warnings = append(result.Warnings, basket.Normalize()...)
	result.Basket = basket
	return result
}

// nameCollides reports whether a section name is already taken
// case-insensitively in the basket under construction.
func nameCollides(b *Basket, name string) bool {
	key := normalizeSectionName(name)
	for i := range b.Sections {
		if normalizeSectionName(b.Sections[i].Name) == key {
			return true
		}
	}
	return false
}
