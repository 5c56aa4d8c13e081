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

type sectionCreateRequest struct {
	Name string `json:"name"`
}

// HandleSectionCreate returns a handler that appends a new section to a
// quote. Names must be unique within the quote, case-insensitively.
func HandleSectionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		var req sectionCreateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		basket, _, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		// Validate against the in-memory basket first so the rules live in
		// one place.
		if _, err := basket.AddSection("pending", req.Name); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		sectionsCol, err := app.FindCollectionByNameOrId("quote_sections")
		if err != nil {
			log.Printf("section_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Storage unavailable")
		}

		section := core.NewRecord(sectionsCol)
		section.Set("quote", quoteID)
		section.Set("sort_order", len(basket.Sections))
		section.Set("name", strings.TrimSpace(req.Name))
		if err := app.Save(section); err != nil {
			log.Printf("section_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not create section")
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":   section.Id,
			"name": section.GetString("name"),
		})
	}
}

type sectionUpdateRequest struct {
	Name             *string  `json:"name"`
	Notes            *string  `json:"notes"`
	DiscountOverride *float64 `json:"discountOverride"`
	ClearOverride    bool     `json:"clearOverride"`
}

// HandleSectionUpdate returns a handler that renames a section, edits its
// notes, or sets/clears its discount override. Absent fields are left
// untouched.
func HandleSectionUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		sectionID := e.Request.PathValue("sectionId")
		if quoteID == "" || sectionID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote or section ID")
		}

		var req sectionUpdateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		basket, _, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		if basket.SectionByID(sectionID) == nil {
			return jsonError(e, http.StatusNotFound, "Section not found")
		}

		if req.Name != nil {
			if err := basket.RenameSection(sectionID, *req.Name); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		}
		if req.Notes != nil {
			if err := basket.SetSectionNotes(sectionID, *req.Notes); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		}
		if req.ClearOverride {
			if err := basket.SetSectionDiscountOverride(sectionID, nil); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		} else if req.DiscountOverride != nil {
			if err := basket.SetSectionDiscountOverride(sectionID, req.DiscountOverride); err != nil {
				return jsonError(e, http.StatusBadRequest, err.Error())
			}
		}

		section, err := app.FindRecordById("quote_sections", sectionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Section not found")
		}
		updated := basket.SectionByID(sectionID)
		section.Set("name", updated.Name)
		section.Set("notes", updated.Notes)
		section.Set("has_discount_override", updated.DiscountOverride != nil)
		if updated.DiscountOverride != nil {
			section.Set("discount_override", *updated.DiscountOverride)
		} else {
			section.Set("discount_override", 0)
		}
		if err := app.Save(section); err != nil {
			log.Printf("section_update: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not update section")
		}

		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusOK, map[string]any{
			"id":     sectionID,
			"name":   updated.Name,
			"totals": toTotalsPayload(totals),
		})
	}
}

// HandleSectionDelete returns a handler that deletes a section and its
// items. The last remaining section of a quote cannot be deleted.
func HandleSectionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		sectionID := e.Request.PathValue("sectionId")
		if quoteID == "" || sectionID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote or section ID")
		}

		basket, quote, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		if err := basket.RemoveSection(sectionID); err != nil {
			status := http.StatusBadRequest
			if err.Error() == "section not found" {
				status = http.StatusNotFound
			}
			return jsonError(e, status, err.Error())
		}

		section, err := app.FindRecordById("quote_sections", sectionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Section not found")
		}
		if err := app.Delete(section); err != nil {
			log.Printf("section_delete: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not delete section")
		}

		// RemoveSection may have reset the adjustments if the quote emptied.
		if err := syncAdjustments(app, quote, basket); err != nil {
			log.Printf("section_delete: sync: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not update quote")
		}

		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusOK, map[string]any{
			"deleted": sectionID,
			"totals":  toTotalsPayload(totals),
		})
	}
}
