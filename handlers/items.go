package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/services"
)

type itemCreateRequest struct {
	SectionID       string   `json:"sectionId"`
	ParentID        string   `json:"parentId"`
	CatalogueItemID string   `json:"catalogueItemId"`
	Label           string   `json:"label"`
	Code            string   `json:"code"`
	Unit            string   `json:"unit"`
	Quantity        *float64 `json:"quantity"`
	Price           *float64 `json:"price"`
	SourceTag       string   `json:"sourceTag"`
}

// HandleItemCreate returns a handler that adds a line to a quote section,
// optionally nested under a top-level parent. Lines can be typed in from
// scratch or sourced from the catalogue via catalogueItemId, in which case
// label, code, unit and price default from the catalogue record and any
// request fields override them. Quantity defaults to 1 and a missing price
// stays unset (the line renders as N/A).
func HandleItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		var req itemCreateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		if req.CatalogueItemID != "" {
			source, err := app.FindRecordById("catalogue_items", req.CatalogueItemID)
			if err != nil {
				return jsonError(e, http.StatusNotFound, "Catalogue item not found")
			}
			if req.Label == "" {
				req.Label = source.GetString("label")
			}
			if req.Code == "" {
				req.Code = source.GetString("code")
			}
			if req.Unit == "" {
				req.Unit = source.GetString("unit")
			}
			if req.Price == nil && source.GetBool("has_default_price") {
				price := source.GetFloat("default_price")
				req.Price = &price
			}
			if req.SourceTag == "" {
				req.SourceTag = source.GetString("category")
			}
		}

		label := strings.TrimSpace(req.Label)
		if label == "" {
			return jsonError(e, http.StatusBadRequest, "Item label is required")
		}

		basket, _, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		sec := basket.SectionByID(req.SectionID)
		if sec == nil {
			return jsonError(e, http.StatusNotFound, "Section not found")
		}

		item := services.Item{
			ID:        "pending",
			ParentID:  req.ParentID,
			Label:     label,
			Code:      strings.TrimSpace(req.Code),
			Unit:      strings.TrimSpace(req.Unit),
			Quantity:  1,
			SourceTag: req.SourceTag,
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Price != nil {
			item.Price = *req.Price
			item.HasPrice = true
		}

		// Validate parent linkage and clamps against the in-memory basket.
		added, err := basket.AddItem(req.SectionID, item)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		itemsCol, err := app.FindCollectionByNameOrId("quote_items")
		if err != nil {
			log.Printf("item_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Storage unavailable")
		}

		record := core.NewRecord(itemsCol)
		record.Set("section", req.SectionID)
		record.Set("sort_order", len(sec.Items))
		record.Set("label", added.Label)
		record.Set("code", added.Code)
		record.Set("unit", added.Unit)
		record.Set("quantity", added.Quantity)
		record.Set("has_price", added.HasPrice)
		if added.HasPrice {
			record.Set("price", added.Price)
		}
		record.Set("source_tag", added.SourceTag)
		if added.IsChild {
			record.Set("parent", added.ParentID)
		}
		if err := app.Save(record); err != nil {
			log.Printf("item_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not create item")
		}

		added.ID = record.Id
		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusCreated, map[string]any{
			"item":   toItemPayload(*added),
			"totals": toTotalsPayload(totals),
		})
	}
}

type itemUpdateRequest struct {
	Label      *string  `json:"label"`
	Quantity   *float64 `json:"quantity"`
	Price      *float64 `json:"price"`
	ClearPrice bool     `json:"clearPrice"`
	Collapsed  *bool    `json:"collapsed"`
	SectionID  *string  `json:"sectionId"`
}

// HandleItemUpdate returns a handler that edits a line: label, quantity,
// price (set or clear), collapsed state, or the owning section. Absent
// fields are left untouched.
func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")
		if quoteID == "" || itemID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote or item ID")
		}

		var req itemUpdateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		basket, _, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		it := basket.ItemByID(itemID)
		if it == nil {
			return jsonError(e, http.StatusNotFound, "Item not found")
		}

		if req.Label != nil {
			label := strings.TrimSpace(*req.Label)
			if label == "" {
				return jsonError(e, http.StatusBadRequest, "Item label is required")
			}
			it.Label = label
		}
		if req.Quantity != nil {
			if err := basket.SetQuantity(itemID, *req.Quantity); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		}
		if req.ClearPrice {
			if err := basket.ClearPrice(itemID); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		} else if req.Price != nil {
			if err := basket.SetPrice(itemID, *req.Price); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		}
		if req.Collapsed != nil {
			it.Collapsed = *req.Collapsed
		}
		if req.SectionID != nil {
			if err := basket.MoveItemToSection(itemID, *req.SectionID); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		}

		record, err := app.FindRecordById("quote_items", itemID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Item not found")
		}
		updated := basket.ItemByID(itemID)
		record.Set("label", updated.Label)
		record.Set("quantity", updated.Quantity)
		record.Set("has_price", updated.HasPrice)
		if updated.HasPrice {
			record.Set("price", updated.Price)
		} else {
			record.Set("price", 0)
		}
		record.Set("collapsed", updated.Collapsed)
		if req.SectionID != nil {
			record.Set("section", *req.SectionID)
		}
		if err := app.Save(record); err != nil {
			log.Printf("item_update: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not update item")
		}

		// Children follow their parent when it changes section.
		if req.SectionID != nil {
			children, err := app.FindRecordsByFilter(
				"quote_items",
				"parent = {:parent}",
				"sort_order",
				0,
				0,
				map[string]any{"parent": itemID},
			)
			if err == nil {
				for _, child := range children {
					child.Set("section", *req.SectionID)
					if err := app.Save(child); err != nil {
						log.Printf("item_update: move child %s: %v", child.Id, err)
					}
				}
			}
		}

		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusOK, map[string]any{
			"item":   toItemPayload(*updated),
			"totals": toTotalsPayload(totals),
		})
	}
}

// HandleItemDelete returns a handler that removes a line. Deleting a
// top-level line removes its children with it, and emptying the quote
// resets the discount adjustments.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")
		if quoteID == "" || itemID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote or item ID")
		}

		basket, quote, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		if err := basket.RemoveItem(itemID); err != nil {
			return jsonError(e, http.StatusNotFound, "Item not found")
		}

		record, err := app.FindRecordById("quote_items", itemID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Item not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			children, err := txApp.FindRecordsByFilter(
				"quote_items",
				"parent = {:parent}",
				"",
				0,
				0,
				map[string]any{"parent": itemID},
			)
			if err != nil {
				return err
			}
			for _, child := range children {
				if err := txApp.Delete(child); err != nil {
					return err
				}
			}
			return txApp.Delete(record)
		})
		if err != nil {
			log.Printf("item_delete: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not delete item")
		}

		if err := syncAdjustments(app, quote, basket); err != nil {
			log.Printf("item_delete: sync: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not update quote")
		}

		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusOK, map[string]any{
			"deleted": itemID,
			"totals":  toTotalsPayload(totals),
		})
	}
}
