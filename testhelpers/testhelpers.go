// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestQuote creates a quote record with the given title and a default
// "Section 1", mirroring what the create handler does.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("discount_percent", 0)
	record.Set("has_grand_total_override", false)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	CreateTestSection(t, app, record.Id, "Section 1", 1)

	return record
}

// CreateTestSection creates a section record linked to a quote and returns it.
func CreateTestSection(t *testing.T, app *pocketbase.PocketBase, quoteID, name string, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_sections")
	if err != nil {
		t.Fatalf("failed to find quote_sections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("name", name)
	record.Set("sort_order", sortOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test section: %v", err)
	}

	return record
}

// CreateTestItem creates a priced top-level item record in a section.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, sectionID, label string, qty, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		t.Fatalf("failed to find quote_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("section", sectionID)
	record.Set("sort_order", 1)
	record.Set("label", label)
	record.Set("quantity", qty)
	record.Set("price", price)
	record.Set("has_price", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestChildItem creates a child item record nested under a parent item.
func CreateTestChildItem(t *testing.T, app *pocketbase.PocketBase, sectionID, parentID, label string, qty, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		t.Fatalf("failed to find quote_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("section", sectionID)
	record.Set("parent", parentID)
	record.Set("sort_order", 2)
	record.Set("label", label)
	record.Set("quantity", qty)
	record.Set("price", price)
	record.Set("has_price", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test child item: %v", err)
	}

	return record
}

// CreateTestCatalogueItem creates a catalogue record and returns it.
func CreateTestCatalogueItem(t *testing.T, app *pocketbase.PocketBase, category, label string, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalogue_items")
	if err != nil {
		t.Fatalf("failed to find catalogue_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("category", category)
	record.Set("sort_order", 1)
	record.Set("label", label)
	record.Set("default_price", price)
	record.Set("has_default_price", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalogue item: %v", err)
	}

	return record
}
