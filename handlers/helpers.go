package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"defcost/services"
)

// errorResponse is the uniform JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, errorResponse{Error: message})
}

// sectionTotalsPayload mirrors services.SectionTotals for JSON output.
type sectionTotalsPayload struct {
	RawEx            float64 `json:"rawEx"`
	DiscountedEx     float64 `json:"discountedEx"`
	DiscountValueEx  float64 `json:"discountValueEx"`
	EffectivePercent float64 `json:"effectivePercent"`
	GST              float64 `json:"gst"`
	InclGST          float64 `json:"inclGst"`
}

type totalsPayload struct {
	HasItems          bool    `json:"hasItems"`
	GrandRawEx        float64 `json:"grandRawEx"`
	GrandDiscountedEx float64 `json:"grandDiscountedEx"`
	DiscountValueEx   float64 `json:"discountValueEx"`
	EffectivePercent  float64 `json:"effectivePercent"`
	GST               float64 `json:"gst"`
	GrandInclGST      float64 `json:"grandInclGst"`
}

type itemPayload struct {
	ID        string  `json:"id"`
	ParentID  string  `json:"parentId,omitempty"`
	Label     string  `json:"label"`
	Code      string  `json:"code,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	HasPrice  bool    `json:"hasPrice"`
	SourceTag string  `json:"sourceTag,omitempty"`
	Collapsed bool    `json:"collapsed"`
	LineTotal string  `json:"lineTotal"`
}

type groupPayload struct {
	Parent   itemPayload   `json:"parent"`
	Children []itemPayload `json:"children,omitempty"`
}

type sectionPayload struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Notes  string               `json:"notes,omitempty"`
	Groups []groupPayload       `json:"groups"`
	Totals sectionTotalsPayload `json:"totals"`
}

type reportPayload struct {
	QuoteID  string           `json:"quoteId"`
	Title    string           `json:"title"`
	Sections []sectionPayload `json:"sections"`
	Totals   totalsPayload    `json:"totals"`
}

func toItemPayload(it services.Item) itemPayload {
	p := itemPayload{
		ID:        it.ID,
		ParentID:  it.ParentID,
		Label:     it.Label,
		Code:      it.Code,
		Unit:      it.Unit,
		Quantity:  it.Quantity,
		Price:     it.Price,
		HasPrice:  it.HasPrice,
		SourceTag: it.SourceTag,
		Collapsed: it.Collapsed,
		LineTotal: "N/A",
	}
	if it.HasPrice {
		p.LineTotal = services.FormatCurrency(services.LineTotal(it.Quantity, it.Price))
	}
	return p
}

func toSectionTotalsPayload(t services.SectionTotals) sectionTotalsPayload {
	return sectionTotalsPayload{
		RawEx:            t.RawEx,
		DiscountedEx:     t.DiscountedEx,
		DiscountValueEx:  t.DiscountValueEx,
		EffectivePercent: t.EffectivePercent,
		GST:              t.GST,
		InclGST:          t.InclGST,
	}
}

func toTotalsPayload(t services.Totals) totalsPayload {
	return totalsPayload{
		HasItems:          t.HasItems,
		GrandRawEx:        t.GrandRawEx,
		GrandDiscountedEx: t.GrandDiscountedEx,
		DiscountValueEx:   t.DiscountValueEx,
		EffectivePercent:  t.EffectivePercent,
		GST:               t.GST,
		GrandInclGST:      t.GrandInclGST,
	}
}

// buildReportPayload projects a basket's report into the JSON shape the
// client renders from.
func buildReportPayload(quoteID, title string, basket *services.Basket) reportPayload {
	report := services.BuildReport(basket)

	payload := reportPayload{
		QuoteID:  quoteID,
		Title:    title,
		Sections: make([]sectionPayload, 0, len(report.Sections)),
		Totals:   toTotalsPayload(report.Totals),
	}
	for _, sec := range report.Sections {
		sp := sectionPayload{
			ID:     sec.ID,
			Name:   sec.Name,
			Notes:  sec.Notes,
			Groups: make([]groupPayload, 0, len(sec.Groups)),
			Totals: toSectionTotalsPayload(sec.Totals),
		}
		for _, g := range sec.Groups {
			gp := groupPayload{Parent: toItemPayload(g.Parent)}
			for _, c := range g.Children {
				gp.Children = append(gp.Children, toItemPayload(c))
			}
			sp.Groups = append(sp.Groups, gp)
		}
		payload.Sections = append(payload.Sections, sp)
	}
	return payload
}
