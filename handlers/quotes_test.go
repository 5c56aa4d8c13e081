package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"defcost/testhelpers"
)

func TestHandleQuoteCreate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"title":"Smith Residence"}`))
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.ID == "" || resp.Title != "Smith Residence" {
		t.Errorf("response = %+v", resp)
	}

	// The default section is created with the quote.
	sections, err := app.FindRecordsByFilter("quote_sections", "quote = {:q}", "", 0, 0, map[string]any{"q": resp.ID})
	if err != nil || len(sections) != 1 {
		t.Fatalf("sections = %v, err = %v", sections, err)
	}
	if sections[0].GetString("name") != "Section 1" {
		t.Errorf("default section name = %q", sections[0].GetString("name"))
	}
}

func TestHandleQuoteCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteCreate(app)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"blank title", `{"title":"  "}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleQuoteCreate_DuplicateTitle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuote(t, app, "Smith Residence")
	handler := HandleQuoteCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"title":"Smith Residence"}`))
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleQuoteView_TotalsComputed(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "Fencing Quote")
	sections, _ := app.FindRecordsByFilter("quote_sections", "quote = {:q}", "", 1, 0, map[string]any{"q": quote.Id})
	parent := testhelpers.CreateTestItem(t, app, sections[0].Id, "Fence run", 2, 100)
	testhelpers.CreateTestChildItem(t, app, sections[0].Id, parent.Id, "Gate hardware", 1, 25)

	quote.Set("discount_percent", 10)
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	handler := HandleQuoteView(app)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp reportPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Title != "Fencing Quote" {
		t.Errorf("title = %q", resp.Title)
	}
	if resp.Totals.GrandRawEx != 225 {
		t.Errorf("GrandRawEx = %v, want 225", resp.Totals.GrandRawEx)
	}
	if resp.Totals.GrandDiscountedEx != 202.50 {
		t.Errorf("GrandDiscountedEx = %v, want 202.50", resp.Totals.GrandDiscountedEx)
	}
	if resp.Totals.GST != 20.25 {
		t.Errorf("GST = %v, want 20.25", resp.Totals.GST)
	}
	if resp.Totals.GrandInclGST != 222.75 {
		t.Errorf("GrandInclGST = %v, want 222.75", resp.Totals.GrandInclGST)
	}
	if len(resp.Sections) != 1 || len(resp.Sections[0].Groups) != 1 {
		t.Fatalf("sections = %+v", resp.Sections)
	}
	if len(resp.Sections[0].Groups[0].Children) != 1 {
		t.Errorf("child should nest under parent: %+v", resp.Sections[0].Groups[0])
	}
}

func TestHandleQuoteView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteView(app)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleQuoteDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "Doomed Quote")
	handler := HandleQuoteDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/api/quotes/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := app.FindRecordById("quotes", quote.Id); err == nil {
		t.Error("quote should be deleted")
	}
	sections, _ := app.FindRecordsByFilter("quote_sections", "quote = {:q}", "", 0, 0, map[string]any{"q": quote.Id})
	if len(sections) != 0 {
		t.Errorf("sections should cascade, got %d", len(sections))
	}
}

func TestHandleQuoteResetAndRestore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "Undoable Quote")
	sections, _ := app.FindRecordsByFilter("quote_sections", "quote = {:q}", "", 1, 0, map[string]any{"q": quote.Id})
	testhelpers.CreateTestItem(t, app, sections[0].Id, "Fence run", 2, 100)
	quote.Set("discount_percent", 10)
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	reset := HandleQuoteReset(app)
	req := httptest.NewRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/reset", nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := reset(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d: %s", rec.Code, rec.Body.String())
	}

	var after reportPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if after.Totals.HasItems {
		t.Error("reset quote should be empty")
	}
	if len(after.Sections) != 1 || after.Sections[0].Name != "Section 1" {
		t.Errorf("reset sections = %+v", after.Sections)
	}

	restore := HandleQuoteRestore(app)
	req = httptest.NewRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/restore", nil)
	req.SetPathValue("id", quote.Id)
	rec = httptest.NewRecorder()
	if err := restore(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("restore error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d: %s", rec.Code, rec.Body.String())
	}

	var restored reportPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &restored); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if restored.Totals.GrandRawEx != 200 {
		t.Errorf("restored GrandRawEx = %v, want 200", restored.Totals.GrandRawEx)
	}
	if restored.Totals.GrandDiscountedEx != 180 {
		t.Errorf("restored GrandDiscountedEx = %v, want 180", restored.Totals.GrandDiscountedEx)
	}
}

func TestHandleQuoteRestore_NoBackup(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "Fresh Quote")
	handler := HandleQuoteRestore(app)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/restore", nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleQuoteList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "Listed Quote")
	sections, _ := app.FindRecordsByFilter("quote_sections", "quote = {:q}", "", 1, 0, map[string]any{"q": quote.Id})
	testhelpers.CreateTestItem(t, app, sections[0].Id, "Fence run", 2, 100)

	handler := HandleQuoteList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Quotes []quoteSummaryPayload `json:"quotes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Quotes) != 1 {
		t.Fatalf("quotes = %+v", resp.Quotes)
	}
	q := resp.Quotes[0]
	if q.Title != "Listed Quote" || q.ItemCount != 1 {
		t.Errorf("summary = %+v", q)
	}
	if q.GrandInclGST != 220 {
		t.Errorf("GrandInclGST = %v, want 220", q.GrandInclGST)
	}
}
