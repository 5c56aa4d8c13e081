package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MigrateDefaultSections finds quotes that have no sections at all and gives
// each one the default "Section 1". Older data created before sections were
// mandatory can otherwise render an empty grid. Safe to call on every
// startup -- returns early if nothing to migrate.
func MigrateDefaultSections(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}
	sectionsCol, err := app.FindCollectionByNameOrId("quote_sections")
	if err != nil {
		return fmt.Errorf("migrate: could not find quote_sections collection: %w", err)
	}

	quotes, err := app.FindAllRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}

	migrated := 0
	for _, quote := range quotes {
		sections, err := app.FindRecordsByFilter(
			sectionsCol,
			"quote = {:quote}",
			"",
			1,
			0,
			map[string]any{"quote": quote.Id},
		)
		if err != nil {
			log.Printf("migrate: could not query sections of quote %s: %v\n", quote.Id, err)
			continue
		}
		if len(sections) > 0 {
			continue
		}

		section := core.NewRecord(sectionsCol)
		section.Set("quote", quote.Id)
		section.Set("sort_order", 1)
		section.Set("name", "Section 1")
		if err := app.Save(section); err != nil {
			log.Printf("migrate: failed to create default section for quote %q (%s): %v\n",
				quote.GetString("title"), quote.Id, err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: added a default section to %d quote(s).\n", migrated)
	}
	return nil
}
