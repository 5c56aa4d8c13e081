package services

import (
	"strings"
	"testing"
)

func TestExportCSVFencingScenario(t *testing.T) {
	b := fencingBasket()
	b.SetSectionNotes("sec-1", "Install within 2 weeks")

	got := string(ExportCSV(b))
	want := strings.Join([]string{
		`"Section","Item","Quantity","Price","Line Total"`,
		`"Fencing","Treated pine paling fence","2","100.00","200.00"`,
		`"Fencing","- Gate hardware","1","25.00","25.00"`,
		`"Section 1 Notes","Install within 2 weeks","","",""`,
		`"Total (Ex GST)","","","","225.00"`,
		`"Discount (%)","","","","10.00"`,
		`"Grand Total (Ex GST)","","","","202.50"`,
		`"GST","","","","20.25"`,
		`"Grand Total (Incl. GST)","","","","222.75"`,
	}, "\n") + "\n"

	if got != want {
		t.Errorf("unexpected export:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestExportCSVUnsetPriceRendersNA(t *testing.T) {
	b := NewBasket()
	b.AddItem("sec-1", Item{ID: "p1", Label: "Quoted later", Quantity: 2})

	got := string(ExportCSV(b))
	if !strings.Contains(got, `"Quoted later","2","N/A","N/A"`) {
		t.Errorf("unset price should render N/A in Price and Line Total:\n%s", got)
	}
}

func TestExportCSVEscapesLiteralChildMarker(t *testing.T) {
	b := NewBasket()
	b.AddItem("sec-1", Item{ID: "p1", Label: "- not a child", Quantity: 1, Price: 5, HasPrice: true})

	got := string(ExportCSV(b))
	if !strings.Contains(got, `"\- not a child"`) {
		t.Errorf("literal marker should be escaped:\n%s", got)
	}
}

func TestExportCSVQuotesEmbeddedQuotes(t *testing.T) {
	b := NewBasket()
	b.AddItem("sec-1", Item{ID: "p1", Label: `90x90 "H4" post`, Quantity: 1, Price: 20, HasPrice: true})

	got := string(ExportCSV(b))
	if !strings.Contains(got, `"90x90 ""H4"" post"`) {
		t.Errorf("embedded quotes should be doubled:\n%s", got)
	}
}

func TestExportCSVFractionalQuantity(t *testing.T) {
	b := NewBasket()
	b.AddItem("sec-1", Item{ID: "p1", Label: "Concrete", Quantity: 2.5, Price: 10, HasPrice: true})

	got := string(ExportCSV(b))
	if !strings.Contains(got, `"Concrete","2.5","10.00","25.00"`) {
		t.Errorf("fractional quantity should print without trailing zeros:\n%s", got)
	}
}
