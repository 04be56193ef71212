package main

import "testing"

func TestScrapeRows_HeaderThenRecords(t *testing.T) {
	doc := `
<table>
  <tr><td>name</td><td>tier</td></tr>
  <tr><td>alice</td><td>gold</td></tr>
  <tr><td>bob</td><td>silver</td></tr>
</table>`

	rows, err := scrapeRows(doc, "tr", "td")
	if err != nil {
		t.Fatalf("scrapeRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(rows), rows)
	}
	if rows[0]["name"] != "alice" || rows[0]["tier"] != "gold" {
		t.Errorf("unexpected first record: %+v", rows[0])
	}
	if rows[1]["name"] != "bob" || rows[1]["tier"] != "silver" {
		t.Errorf("unexpected second record: %+v", rows[1])
	}
}

func TestScrapeRows_ShortRowIgnoresMissingTrailingCells(t *testing.T) {
	doc := `
<table>
  <tr><td>name</td><td>tier</td></tr>
  <tr><td>alice</td></tr>
</table>`

	rows, err := scrapeRows(doc, "tr", "td")
	if err != nil {
		t.Fatalf("scrapeRows: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "alice" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if _, ok := rows[0]["tier"]; ok {
		t.Errorf("expected no 'tier' key for a short row, got %v", rows[0]["tier"])
	}
}

func TestZip_AlignsByHeaderPosition(t *testing.T) {
	got := zip([]string{"a", "b", "c"}, []string{"1", "2"})
	if got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected zip result: %+v", got)
	}
	if _, ok := got["c"]; ok {
		t.Fatalf("expected no 'c' key, got %v", got["c"])
	}
}
