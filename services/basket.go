package services

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Item is one quoted line. A child line is nested under a top-level parent
// in the same section; children never have children of their own.
type Item struct {
	ID        string
	ParentID  string // blank for top-level items
	IsChild   bool
	Label     string
	Code      string
	Unit      string
	Quantity  float64
	Price     float64
	HasPrice  bool // false means the price is unset and renders as N/A
	SourceTag string
	Collapsed bool
}

// Section groups line items under a name, with optional notes and an
// optional absolute discount override (a discounted ex-GST target for the
// section, clamped to [0, raw subtotal] by the pricing engine).
type Section struct {
	ID               string
	Name             string
	Notes            string
	DiscountOverride *float64
	Items            []Item
}

// Basket is the root quote document. DiscountPercent and GrandTotalOverride
// are two views of the same adjustment and are kept reconciled by the
// mutation methods; they must never drift apart.
type Basket struct {
	Sections           []Section
	DiscountPercent    float64
	GrandTotalOverride *float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IntegrityWarning records a recovered data problem: never fatal, never
// silent.
type IntegrityWarning struct {
	Code    string // "orphaned_child", "duplicate_section", "invalid_section"
	Message string
}

// NewBasket returns an empty basket with the default section.
func NewBasket() *Basket {
	now := time.Now().UTC()
	return &Basket{
		Sections:  []Section{{ID: "sec-1", Name: "Section 1"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// normalizeSectionName is the case-insensitive key used for uniqueness
// checks.
func normalizeSectionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SectionByID returns the section with the given id, or nil.
func (b *Basket) SectionByID(id string) *Section {
	for i := range b.Sections {
		if b.Sections[i].ID == id {
			return &b.Sections[i]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the basket, children included.
func (b *Basket) ItemCount() int {
	n := 0
	for i := range b.Sections {
		n += len(b.Sections[i].Items)
	}
	return n
}

// HasItems reports whether any line exists anywhere in the basket.
func (b *Basket) HasItems() bool {
	return b.ItemCount() > 0
}

// Normalize repairs the basket in place and returns warnings for anything it
// had to recover: orphaned children are coerced to top-level (financial data
// is never dropped), quantities are clamped, blank section names are filled
// in, and at least one section is guaranteed to exist.
func (b *Basket) Normalize() []IntegrityWarning {
	var warnings []IntegrityWarning

	if len(b.Sections) == 0 {
		b.Sections = []Section{{ID: "sec-1", Name: "Section 1"}}
	}

	seenNames := map[string]bool{}
	for i := range b.Sections {
		sec := &b.Sections[i]
		if sec.ID == "" {
			sec.ID = fmt.Sprintf("sec-%d", i+1)
		}
		sec.Name = strings.TrimSpace(sec.Name)
		if sec.Name == "" {
			sec.Name = fmt.Sprintf("Section %d", i+1)
		}
		key := normalizeSectionName(sec.Name)
		if seenNames[key] {
			base := sec.Name
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)", base, n)
				if !seenNames[normalizeSectionName(candidate)] {
					sec.Name = candidate
					break
				}
			}
			warnings = append(warnings, IntegrityWarning{
				Code:    "duplicate_section",
				Message: fmt.Sprintf("Section %q renamed to %q to keep names unique", base, sec.Name),
			})
		}
		seenNames[normalizeSectionName(sec.Name)] = true

		parents := map[string]bool{}
		for j := range sec.Items {
			it := &sec.Items[j]
			if !it.IsChild && it.ParentID == "" {
				parents[it.ID] = true
			}
		}
		for j := range sec.Items {
			it := &sec.Items[j]
			if it.ParentID != "" || it.IsChild {
				if !parents[it.ParentID] {
					warnings = append(warnings, IntegrityWarning{
						Code:    "orphaned_child",
						Message: fmt.Sprintf("Item %q references a missing parent and was promoted to top-level", it.Label),
					})
					it.ParentID = ""
					it.IsChild = false
				} else {
					it.IsChild = true
				}
			}
			if math.IsNaN(it.Quantity) || math.IsInf(it.Quantity, 0) {
				it.Quantity = 1
			} else if it.Quantity < 0 {
				it.Quantity = 0
			}
			if math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
				it.Price = 0
				it.HasPrice = false
			}
		}
	}

	return warnings
}

// AddSection appends a new section. Names must be non-empty after trimming
// and unique case-insensitively.
func (b *Basket) AddSection(id, name string) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("section name is required")
	}
	key := normalizeSectionName(name)
	for i := range b.Sections {
		if normalizeSectionName(b.Sections[i].Name) == key {
			return nil, fmt.Errorf("a section named %q already exists", name)
		}
	}
	b.Sections = append(b.Sections, Section{ID: id, Name: name})
	return &b.Sections[len(b.Sections)-1], nil
}

// RenameSection changes a section's name, re-validating uniqueness against
// every other section.
func (b *Basket) RenameSection(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("section name is required")
	}
	sec := b.SectionByID(id)
	if sec == nil {
		return fmt.Errorf("section not found")
	}
	key := normalizeSectionName(name)
	for i := range b.Sections {
		if b.Sections[i].ID != id && normalizeSectionName(b.Sections[i].Name) == key {
			return fmt.Errorf("a section named %q already exists", name)
		}
	}
	sec.Name = name
	return nil
}

// RemoveSection deletes a section and all of its items. Deleting the last
// remaining section is rejected and the basket is left unchanged.
func (b *Basket) RemoveSection(id string) error {
	if len(b.Sections) <= 1 {
		return fmt.Errorf("at least one section is required")
	}
	for i := range b.Sections {
		if b.Sections[i].ID == id {
			b.Sections = append(b.Sections[:i], b.Sections[i+1:]...)
			b.afterMutation()
			return nil
		}
	}
	return fmt.Errorf("section not found")
}

// AddItem appends an item to a section. When parentID is non-blank the item
// becomes a child of that top-level parent and is placed directly after the
// parent's existing children so groups stay contiguous.
func (b *Basket) AddItem(sectionID string, item Item) (*Item, error) {
	sec := b.SectionByID(sectionID)
	if sec == nil {
		return nil, fmt.Errorf("section not found")
	}
	if math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) {
		item.Quantity = 1
	} else if item.Quantity < 0 {
		item.Quantity = 0
	}
	if item.ParentID == "" {
		item.IsChild = false
		sec.Items = append(sec.Items, item)
		return &sec.Items[len(sec.Items)-1], nil
	}

	parentIdx := -1
	for j := range sec.Items {
		if sec.Items[j].ID == item.ParentID && !sec.Items[j].IsChild {
			parentIdx = j
			break
		}
	}
	if parentIdx == -1 {
		return nil, fmt.Errorf("parent item not found in section")
	}
	item.IsChild = true
	insert := parentIdx + 1
	for insert < len(sec.Items) && sec.Items[insert].ParentID == item.ParentID {
		insert++
	}
	sec.Items = append(sec.Items, Item{})
	copy(sec.Items[insert+1:], sec.Items[insert:])
	sec.Items[insert] = item
	return &sec.Items[insert], nil
}

// findItem returns the owning section and index of an item.
func (b *Basket) findItem(itemID string) (*Section, int) {
	for i := range b.Sections {
		for j := range b.Sections[i].Items {
			if b.Sections[i].Items[j].ID == itemID {
				return &b.Sections[i], j
			}
		}
	}
	return nil, -1
}

// ItemByID returns the item with the given id, or nil.
func (b *Basket) ItemByID(itemID string) *Item {
	sec, idx := b.findItem(itemID)
	if sec == nil {
		return nil
	}
	return &sec.Items[idx]
}

// SetQuantity clamps the quantity to >= 0 and stores it. Non-finite input
// leaves the quantity at 0.
func (b *Basket) SetQuantity(itemID string, qty float64) error {
	it := b.ItemByID(itemID)
	if it == nil {
		return fmt.Errorf("item not found")
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		qty = 0
	}
	it.Quantity = qty
	return nil
}

// SetPrice stores a concrete unit price on an item.
func (b *Basket) SetPrice(itemID string, price float64) error {
	it := b.ItemByID(itemID)
	if it == nil {
		return fmt.Errorf("item not found")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return b.ClearPrice(itemID)
	}
	it.Price = price
	it.HasPrice = true
	return nil
}

// ClearPrice marks an item's price as unset. The line renders as N/A and
// contributes zero to aggregates.
func (b *Basket) ClearPrice(itemID string) error {
	it := b.ItemByID(itemID)
	if it == nil {
		return fmt.Errorf("item not found")
	}
	it.Price = 0
	it.HasPrice = false
	return nil
}

// RemoveItem deletes an item. Removing a top-level item removes its
// children with it.
func (b *Basket) RemoveItem(itemID string) error {
	sec, idx := b.findItem(itemID)
	if sec == nil {
		return fmt.Errorf("item not found")
	}
	removed := sec.Items[idx]
	kept := sec.Items[:0]
	for j := range sec.Items {
		it := sec.Items[j]
		if it.ID == itemID {
			continue
		}
		if !removed.IsChild && it.ParentID == itemID {
			continue
		}
		kept = append(kept, it)
	}
	sec.Items = kept
	b.afterMutation()
	return nil
}

// MoveItemToSection moves a top-level item (and its children) to another
// section, appending the group at the end of the target.
func (b *Basket) MoveItemToSection(itemID, targetSectionID string) error {
	src, idx := b.findItem(itemID)
	if src == nil {
		return fmt.Errorf("item not found")
	}
	if src.Items[idx].IsChild {
		return fmt.Errorf("cannot move a child item on its own")
	}
	dst := b.SectionByID(targetSectionID)
	if dst == nil {
		return fmt.Errorf("section not found")
	}
	if src.ID == dst.ID {
		return nil
	}

	var group, remaining []Item
	for j := range src.Items {
		it := src.Items[j]
		if it.ID == itemID || it.ParentID == itemID {
			group = append(group, it)
		} else {
			remaining = append(remaining, it)
		}
	}
	src.Items = remaining
	dst.Items = append(dst.Items, group...)
	return nil
}

// SetDiscountPercent stores a global percent discount, clamped to [0, 100],
// and clears any absolute grand total override so the two stay reconciled.
func (b *Basket) SetDiscountPercent(p float64) {
	b.DiscountPercent = ClampPercent(p)
	b.GrandTotalOverride = nil
}

// SetGrandTotalOverride stores an absolute discounted ex-GST target and
// back-solves the effective percent from the current raw total so both
// views agree. A zero raw total back-solves to 0%.
func (b *Basket) SetGrandTotalOverride(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	v = RoundCurrency(v)
	b.GrandTotalOverride = &v

	raw := b.rawGrandEx()
	if raw > 0 {
		b.DiscountPercent = ClampPercent(100 - v/raw*100)
	} else {
		b.DiscountPercent = 0
	}
}

// SetSectionDiscountOverride stores an absolute discounted ex-GST target for
// one section; pass nil to clear it.
func (b *Basket) SetSectionDiscountOverride(sectionID string, v *float64) error {
	sec := b.SectionByID(sectionID)
	if sec == nil {
		return fmt.Errorf("section not found")
	}
	if v == nil {
		sec.DiscountOverride = nil
		return nil
	}
	val := *v
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		val = 0
	}
	val = RoundCurrency(val)
	sec.DiscountOverride = &val
	return nil
}

// SetSectionNotes stores the free-text notes of a section.
func (b *Basket) SetSectionNotes(sectionID, notes string) error {
	sec := b.SectionByID(sectionID)
	if sec == nil {
		return fmt.Errorf("section not found")
	}
	sec.Notes = notes
	return nil
}

// ResetAdjustments zeroes the global discount and clears the grand total
// override. This is the single place implementing the documented policy
// that emptying a basket resets the user's adjustments; flip the policy
// here if that ever changes.
func (b *Basket) ResetAdjustments() {
	b.DiscountPercent = 0
	b.GrandTotalOverride = nil
}

// afterMutation enforces the empty-basket adjustment policy after any
// destructive change.
func (b *Basket) afterMutation() {
	if !b.HasItems() {
		b.ResetAdjustments()
	}
}

// rawGrandEx sums the undiscounted section totals. Kept private; callers
// wanting totals go through ComputeTotals.
func (b *Basket) rawGrandEx() float64 {
	var grand float64
	for i := range b.Sections {
		var sum float64
		for j := range b.Sections[i].Items {
			it := b.Sections[i].Items[j]
			price := it.Price
			if !it.HasPrice {
				price = 0
			}
			sum += LineTotal(it.Quantity, price)
		}
		grand += RoundCurrency(sum)
	}
	return grand
}
