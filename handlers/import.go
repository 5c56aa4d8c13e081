package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/services"
)

// HandleQuoteImportCSV returns a handler that replaces a quote's contents
// with an uploaded CSV. The import is all-or-nothing: any parse issue
// leaves the stored quote untouched, and at most five issues are reported.
// A snapshot of the current contents is taken first so a successful import
// can be undone with restore.
// Route: POST /api/quotes/{id}/import/csv
func HandleQuoteImportCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		current, quote, err := loadBasket(app, quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return jsonError(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, _, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result := services.ImportCSV(file)
		if len(result.Issues) > 0 {
			return e.JSON(http.StatusUnprocessableEntity, map[string]any{
				"imported": false,
				"issues":   result.SurfacedIssues(),
			})
		}

		if err := snapshotQuote(app, quote, current); err != nil {
			log.Printf("import_csv: snapshot: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not snapshot quote")
		}
		if err := replaceQuoteContents(app, quote, result.Basket); err != nil {
			log.Printf("import_csv: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not import quote")
		}

		warnings := make([]string, 0, len(result.Warnings))
		for _, w := range result.Warnings {
			warnings = append(warnings, w.Message)
		}

		reloaded, _, err := loadBasket(app, quoteID)
		if err != nil {
			log.Printf("import_csv: reload: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not reload quote")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"imported": true,
			"summary": map[string]int{
				"sections": result.Summary.Sections,
				"parents":  result.Summary.Parents,
				"children": result.Summary.Children,
				"notes":    result.Summary.Notes,
			},
			"warnings": warnings,
			"report":   buildReportPayload(quoteID, quote.GetString("title"), reloaded),
		})
	}
}
