package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type catalogueItemPayload struct {
	ID              string  `json:"id"`
	Category        string  `json:"category"`
	Label           string  `json:"label"`
	Code            string  `json:"code,omitempty"`
	Unit            string  `json:"unit,omitempty"`
	DefaultPrice    float64 `json:"defaultPrice"`
	HasDefaultPrice bool    `json:"hasDefaultPrice"`
}

// HandleCatalogueList returns a handler that serves the item catalogue
// grouped by category, in seeded order. Optional query parameters:
// ?category= filters to one category, ?search= matches label or code.
func HandleCatalogueList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("catalogue_items")
		if err != nil {
			log.Printf("catalogue_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Storage unavailable")
		}

		filter := "id != ''"
		params := map[string]any{}
		if category := e.Request.URL.Query().Get("category"); category != "" {
			filter += " && category = {:category}"
			params["category"] = category
		}
		if search := e.Request.URL.Query().Get("search"); search != "" {
			filter += " && (label ~ {:search} || code ~ {:search})"
			params["search"] = search
		}

		records, err := app.FindRecordsByFilter(col, filter, "category,sort_order", 0, 0, params)
		if err != nil {
			log.Printf("catalogue_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not list catalogue")
		}

		grouped := map[string][]catalogueItemPayload{}
		for _, r := range records {
			item := catalogueItemPayload{
				ID:              r.Id,
				Category:        r.GetString("category"),
				Label:           r.GetString("label"),
				Code:            r.GetString("code"),
				Unit:            r.GetString("unit"),
				DefaultPrice:    r.GetFloat("default_price"),
				HasDefaultPrice: r.GetBool("has_default_price"),
			}
			grouped[item.Category] = append(grouped[item.Category], item)
		}

		return e.JSON(http.StatusOK, map[string]any{"categories": grouped})
	}
}
