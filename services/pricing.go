package services

// SectionTotals carries the computed monetary aggregates for one section.
type SectionTotals struct {
	RawEx            float64
	DiscountedEx     float64
	DiscountValueEx  float64
	EffectivePercent float64
	GST              float64
	InclGST          float64
}

// Totals carries the computed monetary aggregates for a whole basket.
// HasItems distinguishes a genuinely empty basket (all zeros) from one that
// happens to total zero.
type Totals struct {
	HasItems          bool
	Sections          []SectionTotals
	GrandRawEx        float64
	GrandDiscountedEx float64
	DiscountValueEx   float64
	EffectivePercent  float64
	GST               float64
	GrandInclGST      float64
}

// ComputeTotals computes all monetary aggregates for a basket. It never
// mutates the basket: clamps and fallbacks are applied to the result only.
//
// Per section the raw exclusive subtotal is the rounded sum of line totals
// (children included). A per-section absolute override, clamped to
// [0, raw], becomes that section's discounted value directly; otherwise the
// global percent applies. A basket-level grand total override supersedes
// the summed discounted value and the effective percent is back-solved.
func ComputeTotals(b *Basket) Totals {
	t := Totals{Sections: make([]SectionTotals, len(b.Sections))}

	for i := range b.Sections {
		sec := &b.Sections[i]
		var sum float64
		for j := range sec.Items {
			it := sec.Items[j]
			price := it.Price
			if !it.HasPrice {
				price = 0
			}
			sum += LineTotal(it.Quantity, price)
		}
		raw := RoundCurrency(sum)

		var discounted float64
		if sec.DiscountOverride != nil {
			discounted = RoundCurrency(Clamp(*sec.DiscountOverride, 0, raw))
		} else {
			discounted = RecalcGrandTotal(raw, ClampPercent(b.DiscountPercent))
		}

		st := SectionTotals{
			RawEx:           raw,
			DiscountedEx:    discounted,
			DiscountValueEx: RoundCurrency(raw - discounted),
		}
		if raw > 0 {
			st.EffectivePercent = RoundCurrency(st.DiscountValueEx / raw * 100)
		}
		st.GST = CalculateGST(discounted)
		st.InclGST = RoundCurrency(discounted + st.GST)
		t.Sections[i] = st

		t.GrandRawEx += raw
		t.GrandDiscountedEx += discounted
	}

	t.GrandRawEx = RoundCurrency(t.GrandRawEx)
	t.GrandDiscountedEx = RoundCurrency(t.GrandDiscountedEx)

	if !b.HasItems() {
		return Totals{HasItems: false, Sections: t.Sections}
	}
	t.HasItems = true

	if b.GrandTotalOverride != nil {
		t.GrandDiscountedEx = RoundCurrency(Clamp(*b.GrandTotalOverride, 0, t.GrandRawEx))
	}

	t.DiscountValueEx = RoundCurrency(t.GrandRawEx - t.GrandDiscountedEx)
	if t.GrandRawEx > 0 {
		t.EffectivePercent = RoundCurrency(t.DiscountValueEx / t.GrandRawEx * 100)
	}

	t.GST = CalculateGST(t.GrandDiscountedEx)
	t.GrandInclGST = RoundCurrency(t.GrandDiscountedEx + t.GST)
	return t
}
