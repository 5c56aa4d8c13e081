package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"defcost/collections"
	"defcost/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateDefaultSections(app); err != nil {
			log.Printf("Warning: section migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Quote CRUD ───────────────────────────────────────────
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(app))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.DELETE("/api/quotes/{id}", handlers.HandleQuoteDelete(app))
		se.Router.POST("/api/quotes/{id}/reset", handlers.HandleQuoteReset(app))
		se.Router.POST("/api/quotes/{id}/restore", handlers.HandleQuoteRestore(app))

		// ── Sections ─────────────────────────────────────────────
		se.Router.POST("/api/quotes/{id}/sections", handlers.HandleSectionCreate(app))
		se.Router.PATCH("/api/quotes/{id}/sections/{sectionId}", handlers.HandleSectionUpdate(app))
		se.Router.DELETE("/api/quotes/{id}/sections/{sectionId}", handlers.HandleSectionDelete(app))

		// ── Items ────────────────────────────────────────────────
		se.Router.POST("/api/quotes/{id}/items", handlers.HandleItemCreate(app))
		se.Router.PATCH("/api/quotes/{id}/items/{itemId}", handlers.HandleItemUpdate(app))
		se.Router.DELETE("/api/quotes/{id}/items/{itemId}", handlers.HandleItemDelete(app))

		// ── Adjustments ──────────────────────────────────────────
		se.Router.PATCH("/api/quotes/{id}/discount", handlers.HandleDiscountUpdate(app))
		se.Router.PATCH("/api/quotes/{id}/grand-total", handlers.HandleGrandTotalUpdate(app))

		// ── Export / Import ──────────────────────────────────────
		se.Router.GET("/api/quotes/{id}/export/csv", handlers.HandleQuoteExportCSV(app))
		se.Router.GET("/api/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app))
		se.Router.GET("/api/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app))
		se.Router.POST("/api/quotes/{id}/import/csv", handlers.HandleQuoteImportCSV(app))

		// ── Catalogue ────────────────────────────────────────────
		se.Router.GET("/api/catalogue", handlers.HandleCatalogueList(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
