package services

import "testing"

func TestGeneratePDF_BasicQuote(t *testing.T) {
	b := fencingBasket()
	b.SetSectionNotes("sec-1", "Rear access only")
	data := BuildExportData("Smith Residence", "2026-08-30", b)

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyBasket(t *testing.T) {
	data := BuildExportData("Empty Quote", "2026-08-30", NewBasket())

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}
