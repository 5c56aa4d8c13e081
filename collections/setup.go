package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the quotes, quote_sections,
// quote_items and catalogue_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.NumberField{Name: "discount_percent", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_grand_total_override"})
		c.Fields.Add(&core.NumberField{Name: "grand_total_override", Required: false})
		c.Fields.Add(&core.TextField{Name: "backup", Required: false, Max: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	sections := ensureCollection(app, "quote_sections", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false, Max: 10000})
		c.Fields.Add(&core.BoolField{Name: "has_discount_override"})
		c.Fields.Add(&core.NumberField{Name: "discount_override", Required: false})
	})

	ensureCollection(app, "quote_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "section",
			Required:      true,
			CollectionId:  sections.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "parent", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "label", Required: true})
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_price"})
		c.Fields.Add(&core.TextField{Name: "source_tag", Required: false})
		c.Fields.Add(&core.BoolField{Name: "collapsed"})
	})

	ensureCollection(app, "catalogue_items", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    catalogueCategories,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "label", Required: true})
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_default_price"})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
