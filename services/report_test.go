package services

import (
	"reflect"
	"testing"
)

func TestBuildReportGrouping(t *testing.T) {
	b := fencingBasket()
	b.AddItem("sec-1", Item{ID: "p2", Label: "Post caps", Quantity: 10, Price: 3, HasPrice: true})

	report := BuildReport(b)
	if len(report.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(report.Sections))
	}
	sec := report.Sections[0]
	if sec.Name != "Fencing" {
		t.Errorf("section name = %q, want %q", sec.Name, "Fencing")
	}
	if len(sec.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(sec.Groups))
	}
	if sec.Groups[0].Parent.ID != "p1" || len(sec.Groups[0].Children) != 1 {
		t.Errorf("first group = %+v", sec.Groups[0])
	}
	if sec.Groups[0].Children[0].ID != "c1" {
		t.Errorf("child id = %q, want c1", sec.Groups[0].Children[0].ID)
	}
	if sec.Groups[1].Parent.ID != "p2" || len(sec.Groups[1].Children) != 0 {
		t.Errorf("second group = %+v", sec.Groups[1])
	}
}

func TestBuildReportEmptySectionStillAppears(t *testing.T) {
	b := NewBasket()
	b.AddSection("sec-2", "Decking")
	b.AddItem("sec-1", Item{ID: "p1", Label: "Gate", Quantity: 1, Price: 10, HasPrice: true})

	report := BuildReport(b)
	if len(report.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(report.Sections))
	}
	if len(report.Sections[1].Groups) != 0 {
		t.Errorf("empty section should have no groups, got %+v", report.Sections[1].Groups)
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	b := fencingBasket()
	first := BuildReport(b)
	second := BuildReport(b)
	if !reflect.DeepEqual(first, second) {
		t.Error("BuildReport should yield identical output for an unchanged basket")
	}
}

func TestBuildReportUnknownParentRendersAsGroup(t *testing.T) {
	b := NewBasket()
	// Bypass AddItem so the dangling parent reference survives.
	b.Sections[0].Items = []Item{
		{ID: "c1", ParentID: "ghost", IsChild: true, Label: "Stray", Quantity: 1, Price: 5, HasPrice: true},
	}

	report := BuildReport(b)
	groups := report.Sections[0].Groups
	if len(groups) != 1 {
		t.Fatalf("expected the stray child to become its own group, got %+v", groups)
	}
	if groups[0].Parent.ID != "c1" || groups[0].Parent.IsChild {
		t.Errorf("stray child not promoted: %+v", groups[0].Parent)
	}
	if report.Totals.GrandRawEx != 5 {
		t.Errorf("GrandRawEx = %v, want 5 (stray line still priced)", report.Totals.GrandRawEx)
	}
}
