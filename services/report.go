package services

// LineGroup is a top-level item together with its nested children, in
// stored order.
type LineGroup struct {
	Parent   Item
	Children []Item
}

// ReportSection is the display/export projection of one section.
type ReportSection struct {
	ID     string
	Name   string
	Notes  string
	Groups []LineGroup
	Totals SectionTotals
}

// Report is the derived, read-only view of a basket used for rendering and
// export. It is rebuilt from the basket on demand and never persisted.
type Report struct {
	Sections []ReportSection
	Totals   Totals
}

// BuildReport projects a basket into its hierarchical report. It is pure:
// calling it twice on an unchanged basket yields identical output, so it is
// safe to invoke on every render. All monetary fields are delegated to
// ComputeTotals; no rounding happens here.
//
// Every configured section appears in the report even when empty. A child
// whose parent is missing has already been promoted to top-level by
// Basket.Normalize; a child encountered here with an unknown parent is
// rendered as its own group rather than dropped.
func BuildReport(b *Basket) Report {
	totals := ComputeTotals(b)
	report := Report{
		Sections: make([]ReportSection, len(b.Sections)),
		Totals:   totals,
	}

	for i := range b.Sections {
		sec := &b.Sections[i]
		rs := ReportSection{
			ID:     sec.ID,
			Name:   sec.Name,
			Notes:  sec.Notes,
			Totals: totals.Sections[i],
		}

		groupByParent := map[string]int{}
		for j := range sec.Items {
			it := sec.Items[j]
			if !it.IsChild {
				rs.Groups = append(rs.Groups, LineGroup{Parent: it})
				groupByParent[it.ID] = len(rs.Groups) - 1
				continue
			}
			gi, ok := groupByParent[it.ParentID]
			if !ok {
				// Unknown parent: surface the line as its own group.
				child := it
				child.IsChild = false
				child.ParentID = ""
				rs.Groups = append(rs.Groups, LineGroup{Parent: child})
				continue
			}
			rs.Groups[gi].Children = append(rs.Groups[gi].Children, it)
		}

		report.Sections[i] = rs
	}

	return report
}
