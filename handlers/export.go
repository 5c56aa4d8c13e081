package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// exportBasket loads and normalizes the basket plus its display metadata.
func exportBasket(app *pocketbase.PocketBase, quoteID string) (*services.Basket, string, string, error) {
	basket, quote, err := loadBasket(app, quoteID)
	if err != nil {
		return nil, "", "", err
	}
	for _, w := range basket.Normalize() {
		log.Printf("export: %s: %s", w.Code, w.Message)
	}

	createdDate := ""
	if dt := quote.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}
	return basket, quote.GetString("title"), createdDate, nil
}

// HandleQuoteExportCSV returns a handler that downloads the quote as the
// canonical round-trippable CSV grid.
func HandleQuoteExportCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		basket, title, _, err := exportBasket(app, quoteID)
		if err != nil {
			log.Printf("export_csv: %v", err)
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		csvBytes := services.ExportCSV(basket)
		filename := fmt.Sprintf("Quote_%s_%d.csv", sanitizeFilename(title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "text/csv; charset=utf-8")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(csvBytes)
		return nil
	}
}

// HandleQuoteExportExcel returns a handler that generates and downloads an
// Excel file for a quote.
func HandleQuoteExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		basket, title, createdDate, err := exportBasket(app, quoteID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		data := services.BuildExportData(title, createdDate, basket)
		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Quote_%s_%d.xlsx", sanitizeFilename(title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleQuoteExportPDF returns a handler that generates and downloads a PDF
// file for a quote.
func HandleQuoteExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		basket, title, createdDate, err := exportBasket(app, quoteID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		data := services.BuildExportData(title, createdDate, basket)
		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Quote_%s_%d.pdf", sanitizeFilename(title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
