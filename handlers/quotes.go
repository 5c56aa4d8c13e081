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

type quoteSummaryPayload struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	DiscountPercent float64 `json:"discountPercent"`
	ItemCount       int     `json:"itemCount"`
	GrandInclGST    float64 `json:"grandInclGst"`
	Created         string  `json:"created"`
	Updated         string  `json:"updated"`
}

// HandleQuoteList returns a handler that lists all quotes with their
// headline totals, newest first.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Storage unavailable")
		}

		quotes, err := app.FindRecordsByFilter(quotesCol, "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("quote_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not list quotes")
		}

		payload := make([]quoteSummaryPayload, 0, len(quotes))
		for _, q := range quotes {
			basket, _, err := loadBasket(app, q.Id)
			if err != nil {
				log.Printf("quote_list: load %s: %v", q.Id, err)
				continue
			}
			totals := services.ComputeTotals(basket)
			payload = append(payload, quoteSummaryPayload{
				ID:              q.Id,
				Title:           q.GetString("title"),
				DiscountPercent: q.GetFloat("discount_percent"),
				ItemCount:       basket.ItemCount(),
				GrandInclGST:    totals.GrandInclGST,
				Created:         q.GetDateTime("created").String(),
				Updated:         q.GetDateTime("updated").String(),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"quotes": payload})
	}
}

type quoteCreateRequest struct {
	Title string `json:"title"`
}

// HandleQuoteCreate returns a handler that creates a quote with its default
// "Section 1".
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteCreateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			return jsonError(e, http.StatusBadRequest, "Quote title is required")
		}

		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Storage unavailable")
		}
		sectionsCol, err := app.FindCollectionByNameOrId("quote_sections")
		if err != nil {
			log.Printf("quote_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Storage unavailable")
		}

		existing, _ := app.FindRecordsByFilter(quotesCol, "title = {:title}", "", 1, 0, map[string]any{"title": title})
		if len(existing) > 0 {
			return jsonError(e, http.StatusConflict, "A quote with this title already exists")
		}

		quote := core.NewRecord(quotesCol)
		quote.Set("title", title)
		quote.Set("discount_percent", 0)
		quote.Set("has_grand_total_override", false)

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(quote); err != nil {
				return err
			}
			section := core.NewRecord(sectionsCol)
			section.Set("quote", quote.Id)
			section.Set("sort_order", 1)
			section.Set("name", "Section 1")
			return txApp.Save(section)
		})
		if err != nil {
			log.Printf("quote_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not create quote")
		}

		return e.JSON(http.StatusCreated, map[string]any{"id": quote.Id, "title": title})
	}
}

// HandleQuoteView returns a handler that serves the full report of one
// quote: grouped lines, per-section totals and grand totals.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		basket, quote, err := loadBasket(app, quoteID)
		if err != nil {
			log.Printf("quote_view: %v", err)
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		warnings := basket.Normalize()
		for _, w := range warnings {
			log.Printf("quote_view: %s: %s", w.Code, w.Message)
		}

		payload := buildReportPayload(quoteID, quote.GetString("title"), basket)
		return e.JSON(http.StatusOK, payload)
	}
}

// HandleQuoteDelete returns a handler that deletes a quote and everything
// under it.
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		quote, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		if err := app.Delete(quote); err != nil {
			log.Printf("quote_delete: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not delete quote")
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": quoteID})
	}
}

// HandleQuoteReset returns a handler that clears a quote back to a single
// empty default section. A snapshot is taken first so the reset can be
// undone with restore.
func HandleQuoteReset(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		basket, quote, err := loadBasket(app, quoteID)
		if err != nil {
			log.Printf("quote_reset: %v", err)
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		if err := snapshotQuote(app, quote, basket); err != nil {
			log.Printf("quote_reset: snapshot: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not snapshot quote")
		}

		fresh := services.NewBasket()
		if err := replaceQuoteContents(app, quote, fresh); err != nil {
			log.Printf("quote_reset: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not reset quote")
		}

		reloaded, _, err := loadBasket(app, quoteID)
		if err != nil {
			log.Printf("quote_reset: reload: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not reload quote")
		}
		return e.JSON(http.StatusOK, buildReportPayload(quoteID, quote.GetString("title"), reloaded))
	}
}

// HandleQuoteRestore returns a handler that swaps a quote's contents with
// its backup snapshot. The replaced contents become the new backup, so
// calling restore twice is a no-op pair.
func HandleQuoteRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		current, quote, err := loadBasket(app, quoteID)
		if err != nil {
			log.Printf("quote_restore: %v", err)
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		backup, err := decodeBackup(quote)
		if err != nil {
			return jsonError(e, http.StatusConflict, "No backup available for this quote")
		}
		warnings := backup.Normalize()
		for _, w := range warnings {
			log.Printf("quote_restore: %s: %s", w.Code, w.Message)
		}

		if err := snapshotQuote(app, quote, current); err != nil {
			log.Printf("quote_restore: snapshot: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not snapshot quote")
		}
		if err := replaceQuoteContents(app, quote, backup); err != nil {
			log.Printf("quote_restore: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not restore quote")
		}

		reloaded, _, err := loadBasket(app, quoteID)
		if err != nil {
			log.Printf("quote_restore: reload: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not reload quote")
		}
		return e.JSON(http.StatusOK, buildReportPayload(quoteID, quote.GetString("title"), reloaded))
	}
}
