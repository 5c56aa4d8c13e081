package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/services"
)

// loadBasket fetches a quote and all of its sections and items, returning
// the in-memory basket the services package computes on. Section and item
// IDs in the basket are the record IDs.
func loadBasket(app core.App, quoteID string) (*services.Basket, *core.Record, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return nil, nil, fmt.Errorf("quote not found: %w", err)
	}

	sectionsCol, err := app.FindCollectionByNameOrId("quote_sections")
	if err != nil {
		return nil, nil, fmt.Errorf("collection not found: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		return nil, nil, fmt.Errorf("collection not found: %w", err)
	}

	basket := &services.Basket{
		DiscountPercent: quote.GetFloat("discount_percent"),
		CreatedAt:       quote.GetDateTime("created").Time(),
		UpdatedAt:       quote.GetDateTime("updated").Time(),
	}
	if quote.GetBool("has_grand_total_override") {
		v := quote.GetFloat("grand_total_override")
		basket.GrandTotalOverride = &v
	}

	sections, err := app.FindRecordsByFilter(
		sectionsCol,
		"quote = {:quote}",
		"sort_order",
		0,
		0,
		map[string]any{"quote": quoteID},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not query sections: %w", err)
	}

	for _, sr := range sections {
		sec := services.Section{
			ID:    sr.Id,
			Name:  sr.GetString("name"),
			Notes: sr.GetString("notes"),
		}
		if sr.GetBool("has_discount_override") {
			v := sr.GetFloat("discount_override")
			sec.DiscountOverride = &v
		}

		items, err := app.FindRecordsByFilter(
			itemsCol,
			"section = {:section}",
			"sort_order",
			0,
			0,
			map[string]any{"section": sr.Id},
		)
		if err != nil {
			return nil, nil, fmt.Errorf("could not query items of section %s: %w", sr.Id, err)
		}
		for _, ir := range items {
			parent := ir.GetString("parent")
			sec.Items = append(sec.Items, services.Item{
				ID:        ir.Id,
				ParentID:  parent,
				IsChild:   parent != "",
				Label:     ir.GetString("label"),
				Code:      ir.GetString("code"),
				Unit:      ir.GetString("unit"),
				Quantity:  ir.GetFloat("quantity"),
				Price:     ir.GetFloat("price"),
				HasPrice:  ir.GetBool("has_price"),
				SourceTag: ir.GetString("source_tag"),
				Collapsed: ir.GetBool("collapsed"),
			})
		}

		basket.Sections = append(basket.Sections, sec)
	}

	return basket, quote, nil
}

// replaceQuoteContents deletes every section and item of a quote and
// recreates them from the basket, all inside one transaction. Basket item
// IDs are remapped to fresh record IDs as parents are created, so imported
// or restored parent links stay intact.
func replaceQuoteContents(app *pocketbase.PocketBase, quote *core.Record, basket *services.Basket) error {
	return app.RunInTransaction(func(txApp core.App) error {
		sectionsCol, err := txApp.FindCollectionByNameOrId("quote_sections")
		if err != nil {
			return fmt.Errorf("collection not found: %w", err)
		}
		itemsCol, err := txApp.FindCollectionByNameOrId("quote_items")
		if err != nil {
			return fmt.Errorf("collection not found: %w", err)
		}

		old, err := txApp.FindRecordsByFilter(
			sectionsCol,
			"quote = {:quote}",
			"",
			0,
			0,
			map[string]any{"quote": quote.Id},
		)
		if err != nil {
			return fmt.Errorf("could not query sections: %w", err)
		}
		for _, sr := range old {
			// Items cascade with their section.
			if err := txApp.Delete(sr); err != nil {
				return fmt.Errorf("could not delete section %s: %w", sr.Id, err)
			}
		}

		for si := range basket.Sections {
			sec := &basket.Sections[si]
			sr := core.NewRecord(sectionsCol)
			sr.Set("quote", quote.Id)
			sr.Set("sort_order", si+1)
			sr.Set("name", sec.Name)
			sr.Set("notes", sec.Notes)
			sr.Set("has_discount_override", sec.DiscountOverride != nil)
			if sec.DiscountOverride != nil {
				sr.Set("discount_override", *sec.DiscountOverride)
			}
			if err := txApp.Save(sr); err != nil {
				return fmt.Errorf("could not save section %q: %w", sec.Name, err)
			}

			// Basket-local parent id -> new record id.
			idMap := map[string]string{}
			for ii := range sec.Items {
				it := &sec.Items[ii]
				ir := core.NewRecord(itemsCol)
				ir.Set("section", sr.Id)
				ir.Set("sort_order", ii+1)
				ir.Set("label", it.Label)
				ir.Set("code", it.Code)
				ir.Set("unit", it.Unit)
				ir.Set("quantity", it.Quantity)
				ir.Set("has_price", it.HasPrice)
				if it.HasPrice {
					ir.Set("price", it.Price)
				}
				ir.Set("source_tag", it.SourceTag)
				ir.Set("collapsed", it.Collapsed)
				if it.IsChild {
					parent, ok := idMap[it.ParentID]
					if !ok {
						return fmt.Errorf("item %q references unknown parent %q", it.Label, it.ParentID)
					}
					ir.Set("parent", parent)
				}
				if err := txApp.Save(ir); err != nil {
					return fmt.Errorf("could not save item %q: %w", it.Label, err)
				}
				if !it.IsChild {
					idMap[it.ID] = ir.Id
				}
			}
		}

		quote.Set("discount_percent", basket.DiscountPercent)
		quote.Set("has_grand_total_override", basket.GrandTotalOverride != nil)
		if basket.GrandTotalOverride != nil {
			quote.Set("grand_total_override", *basket.GrandTotalOverride)
		} else {
			quote.Set("grand_total_override", 0)
		}
		if err := txApp.Save(quote); err != nil {
			return fmt.Errorf("could not save quote: %w", err)
		}
		return nil
	})
}

// snapshotQuote serializes the quote's current basket into its backup slot.
// One slot only: each snapshot overwrites the previous one.
func snapshotQuote(app *pocketbase.PocketBase, quote *core.Record, basket *services.Basket) error {
	encoded, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("could not encode backup: %w", err)
	}
	quote.Set("backup", string(encoded))
	return app.Save(quote)
}

// decodeBackup parses the quote's backup slot into a basket.
func decodeBackup(quote *core.Record) (*services.Basket, error) {
	raw := quote.GetString("backup")
	if raw == "" {
		return nil, fmt.Errorf("no backup available")
	}
	var basket services.Basket
	if err := json.Unmarshal([]byte(raw), &basket); err != nil {
		return nil, fmt.Errorf("could not decode backup: %w", err)
	}
	return &basket, nil
}

// syncAdjustments persists the basket-level discount state after a
// services-side mutation, applying the empty-basket reset policy.
func syncAdjustments(app *pocketbase.PocketBase, quote *core.Record, basket *services.Basket) error {
	quote.Set("discount_percent", basket.DiscountPercent)
	quote.Set("has_grand_total_override", basket.GrandTotalOverride != nil)
	if basket.GrandTotalOverride != nil {
		quote.Set("grand_total_override", *basket.GrandTotalOverride)
	} else {
		quote.Set("grand_total_override", 0)
	}
	return app.Save(quote)
}
