package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/services"
)

type discountRequest struct {
	Percent float64 `json:"percent"`
}

// HandleDiscountUpdate returns a handler that sets the quote-wide percent
// discount. Setting a percent clears any absolute grand total override.
func HandleDiscountUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		var req discountRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		basket, quote, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		basket.SetDiscountPercent(req.Percent)
		if err := syncAdjustments(app, quote, basket); err != nil {
			log.Printf("discount_update: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not update discount")
		}

		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusOK, map[string]any{
			"discountPercent": basket.DiscountPercent,
			"totals":          toTotalsPayload(totals),
		})
	}
}

type grandTotalRequest struct {
	Value float64 `json:"value"`
	Clear bool    `json:"clear"`
}

// HandleGrandTotalUpdate returns a handler that pins the discounted ex-GST
// grand total to an absolute value, back-solving the equivalent percent.
// Passing clear=true removes the pin and keeps the current percent.
func HandleGrandTotalUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		var req grandTotalRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		basket, quote, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		if req.Clear {
			basket.GrandTotalOverride = nil
		} else {
			if !basket.HasItems() {
				return jsonError(e, http.StatusBadRequest, "Cannot override the total of an empty quote")
			}
			basket.SetGrandTotalOverride(req.Value)
		}

		if err := syncAdjustments(app, quote, basket); err != nil {
			log.Printf("grand_total_update: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not update grand total")
		}

		totals := services.ComputeTotals(basket)
		return e.JSON(http.StatusOK, map[string]any{
			"discountPercent": basket.DiscountPercent,
			"totals":          toTotalsPayload(totals),
		})
	}
}
