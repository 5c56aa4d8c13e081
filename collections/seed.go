package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// catalogueCategories is the fixed category list of the item catalogue.
// "uncategorised" is the fallback bucket for ad-hoc lines.
var catalogueCategories = []string{
	"bannister rail",
	"stainless steel grabrail",
	"aluminium grabrail powder coated",
	"shower parts",
	"plumbing",
	"door components",
	"fire safety",
	"anti slip solutions",
	"uncategorised",
}

type catalogueDef struct {
	category        string
	sortOrder       int
	label           string
	code            string
	unit            string
	defaultPrice    float64
	hasDefaultPrice bool
}

var catalogueSeed = []catalogueDef{
	{category: "bannister rail", sortOrder: 1, label: "Timber bannister rail 42mm round, per metre", code: "BR-T42", unit: "m", defaultPrice: 38.50, hasDefaultPrice: true},
	{category: "bannister rail", sortOrder: 2, label: "Bannister rail wall bracket, zinc", code: "BR-WB", unit: "ea", defaultPrice: 9.90, hasDefaultPrice: true},
	{category: "bannister rail", sortOrder: 3, label: "End cap, timber rail", code: "BR-EC", unit: "ea", defaultPrice: 6.50, hasDefaultPrice: true},

	{category: "stainless steel grabrail", sortOrder: 1, label: "SS grabrail 300mm, 32mm dia", code: "GR-SS300", unit: "ea", defaultPrice: 44.00, hasDefaultPrice: true},
	{category: "stainless steel grabrail", sortOrder: 2, label: "SS grabrail 450mm, 32mm dia", code: "GR-SS450", unit: "ea", defaultPrice: 52.00, hasDefaultPrice: true},
	{category: "stainless steel grabrail", sortOrder: 3, label: "SS grabrail 600mm, 32mm dia", code: "GR-SS600", unit: "ea", defaultPrice: 61.00, hasDefaultPrice: true},
	{category: "stainless steel grabrail", sortOrder: 4, label: "SS grabrail 90 degree, 32mm dia", code: "GR-SS90", unit: "ea", defaultPrice: 88.00, hasDefaultPrice: true},

	{category: "aluminium grabrail powder coated", sortOrder: 1, label: "Alu grabrail 300mm, white powder coat", code: "GR-AL300W", unit: "ea", defaultPrice: 36.00, hasDefaultPrice: true},
	{category: "aluminium grabrail powder coated", sortOrder: 2, label: "Alu grabrail 450mm, white powder coat", code: "GR-AL450W", unit: "ea", defaultPrice: 42.00, hasDefaultPrice: true},
	{category: "aluminium grabrail powder coated", sortOrder: 3, label: "Alu grabrail 600mm, white powder coat", code: "GR-AL600W", unit: "ea", defaultPrice: 49.00, hasDefaultPrice: true},

	{category: "shower parts", sortOrder: 1, label: "Handheld shower on rail, chrome", code: "SH-HHR", unit: "ea", defaultPrice: 129.00, hasDefaultPrice: true},
	{category: "shower parts", sortOrder: 2, label: "Fold-down shower seat", code: "SH-FDS", unit: "ea", defaultPrice: 285.00, hasDefaultPrice: true},
	{category: "shower parts", sortOrder: 3, label: "Shower curtain and rail kit", code: "SH-CRK", unit: "ea"},

	{category: "plumbing", sortOrder: 1, label: "Lever mixer tap, basin", code: "PL-LMB", unit: "ea", defaultPrice: 95.00, hasDefaultPrice: true},
	{category: "plumbing", sortOrder: 2, label: "Lever mixer tap, kitchen", code: "PL-LMK", unit: "ea", defaultPrice: 110.00, hasDefaultPrice: true},
	{category: "plumbing", sortOrder: 3, label: "Plumber labour, per hour", code: "PL-LAB", unit: "hr", defaultPrice: 105.00, hasDefaultPrice: true},

	{category: "door components", sortOrder: 1, label: "Lever door handle set", code: "DR-LHS", unit: "ea", defaultPrice: 48.00, hasDefaultPrice: true},
	{category: "door components", sortOrder: 2, label: "Door widening, per opening", code: "DR-WID", unit: "ea"},
	{category: "door components", sortOrder: 3, label: "Offset hinges, pair", code: "DR-OHP", unit: "pr", defaultPrice: 39.00, hasDefaultPrice: true},

	{category: "fire safety", sortOrder: 1, label: "Photoelectric smoke alarm, 10yr battery", code: "FS-SA10", unit: "ea", defaultPrice: 69.00, hasDefaultPrice: true},
	{category: "fire safety", sortOrder: 2, label: "Fire blanket 1.2m x 1.2m", code: "FS-FB12", unit: "ea", defaultPrice: 32.00, hasDefaultPrice: true},

	{category: "anti slip solutions", sortOrder: 1, label: "Anti-slip floor treatment, per sqm", code: "AS-FT", unit: "sqm", defaultPrice: 28.00, hasDefaultPrice: true},
	{category: "anti slip solutions", sortOrder: 2, label: "Anti-slip adhesive strips, pack of 10", code: "AS-STR", unit: "pk", defaultPrice: 18.50, hasDefaultPrice: true},

	{category: "uncategorised", sortOrder: 1, label: "Call-out fee", code: "MISC-CO", unit: "ea", defaultPrice: 85.00, hasDefaultPrice: true},
	{category: "uncategorised", sortOrder: 2, label: "Waste disposal", code: "MISC-WD", unit: "ea"},
}

// Seed populates the catalogue with the standard trade items. It is safe to
// call on every startup because it returns early if any catalogue records
// already exist.
func Seed(app *pocketbase.PocketBase) error {
	catalogueCol, err := app.FindCollectionByNameOrId("catalogue_items")
	if err != nil {
		return fmt.Errorf("seed: could not find catalogue_items collection: %w", err)
	}
	existing, err := app.FindAllRecords(catalogueCol)
	if err != nil {
		return fmt.Errorf("seed: could not query catalogue_items: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: catalogue is empty – inserting seed data …")

	for _, d := range catalogueSeed {
		r := core.NewRecord(catalogueCol)
		r.Set("category", d.category)
		r.Set("sort_order", d.sortOrder)
		r.Set("label", d.label)
		if d.code != "" {
			r.Set("code", d.code)
		}
		if d.unit != "" {
			r.Set("unit", d.unit)
		}
		r.Set("has_default_price", d.hasDefaultPrice)
		if d.hasDefaultPrice {
			r.Set("default_price", d.defaultPrice)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save catalogue item %q: %w", d.label, err)
		}
	}

	log.Printf("seed: inserted %d catalogue items.\n", len(catalogueSeed))
	return nil
}
