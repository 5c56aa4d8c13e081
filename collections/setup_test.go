package collections_test

import (
	"testing"

	"defcost/collections"
	"defcost/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"quotes",
	"quote_sections",
	"quote_items",
	"catalogue_items",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	collections.Setup(app)

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_QuotesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotes")

	fields := []string{
		"title", "discount_percent", "has_grand_total_override",
		"grand_total_override", "backup", "created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotes: missing field %q", f)
		}
	}
}

func TestSetup_QuoteSectionsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quote_sections")

	fields := []string{"quote", "sort_order", "name", "notes", "has_discount_override", "discount_override"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quote_sections: missing field %q", f)
		}
	}

	// quote relation with cascade delete
	quoteField := col.Fields.GetByName("quote")
	if rf, ok := quoteField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("quote_sections.quote: expected CascadeDelete=true")
		}
		if rf.MaxSelect != 1 {
			t.Errorf("quote_sections.quote: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
	} else {
		t.Error("quote_sections.quote is not a RelationField")
	}
}

func TestSetup_QuoteItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quote_items")

	fields := []string{
		"section", "parent", "sort_order", "label", "code", "unit",
		"quantity", "price", "has_price", "source_tag", "collapsed",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quote_items: missing field %q", f)
		}
	}

	// section relation with cascade delete
	sectionField := col.Fields.GetByName("section")
	if rf, ok := sectionField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("quote_items.section: expected CascadeDelete=true")
		}
	} else {
		t.Error("quote_items.section is not a RelationField")
	}
}

func TestSetup_CatalogueItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("catalogue_items")

	fields := []string{"category", "sort_order", "label", "code", "unit", "default_price", "has_default_price"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("catalogue_items: missing field %q", f)
		}
	}

	// category select with the fixed category list
	categoryField := col.Fields.GetByName("category")
	if sf, ok := categoryField.(*core.SelectField); ok {
		if len(sf.Values) != 9 {
			t.Errorf("catalogue_items.category: expected 9 values, got %d", len(sf.Values))
		}
		found := false
		for _, v := range sf.Values {
			if v == "uncategorised" {
				found = true
			}
		}
		if !found {
			t.Error("catalogue_items.category: missing fallback value \"uncategorised\"")
		}
	} else {
		t.Error("catalogue_items.category is not a SelectField")
	}
}

func TestSetup_CascadeDeleteHierarchy(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Create full hierarchy: quote -> section -> item -> child item
	quote := testhelpers.CreateTestQuote(t, app, "Cascade Test")
	section := testhelpers.CreateTestSection(t, app, quote.Id, "Cascade Section", 2)
	item := testhelpers.CreateTestItem(t, app, section.Id, "Parent item", 1, 100)
	child := testhelpers.CreateTestChildItem(t, app, section.Id, item.Id, "Child item", 1, 25)

	if err := app.Delete(quote); err != nil {
		t.Fatalf("failed to delete quote: %v", err)
	}

	_, err := app.FindRecordById("quote_sections", section.Id)
	if err == nil {
		t.Error("section should have been cascade-deleted with quote")
	}
	_, err = app.FindRecordById("quote_items", item.Id)
	if err == nil {
		t.Error("item should have been cascade-deleted with section")
	}
	_, err = app.FindRecordById("quote_items", child.Id)
	if err == nil {
		t.Error("child item should have been cascade-deleted with section")
	}
}
