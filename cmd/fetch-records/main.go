// Command fetch-records scrapes an HTML table into a JSONL file of
// record fixtures, one JSON object per row keyed by the table's header
// cells. noetic-eval's --record/--assoc each read a single JSON object,
// so a file of one line can be passed there directly.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"
)

func main() {
	var (
		url    = flag.String("url", "", "Page containing the table to scrape (required)")
		out    = flag.String("out", "", "Output JSONL path (required)")
		selRow = flag.String("row-tag", "tr", "HTML tag marking one record row")
		selCol = flag.String("col-tag", "td", "HTML tag marking one cell within a row")
	)
	flag.Parse()

	if *url == "" || *out == "" {
		log.Fatal("--url and --out are required")
	}

	body, err := fetchBody(*url)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}

	rows, err := scrapeRows(body, *selRow, *selCol)
	if err != nil {
		log.Fatalf("scrape: %v", err)
	}

	n, size, err := writeJSONL(*out, rows)
	if err != nil {
		log.Fatalf("write: %v", err)
	}
	log.Printf("wrote %d records (%s) to %s", n, humanize.Bytes(uint64(size)), *out)
}

func fetchBody(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// scrapeRows walks doc's parse tree, treating the first rowTag's cells as
// a header and every later rowTag's cells as one record keyed by that
// header, the way a spreadsheet-style HTML table is conventionally laid
// out.
func scrapeRows(doc, rowTag, colTag string) ([]map[string]any, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}

	var header []string
	var records []map[string]any

	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == rowTag {
			cells := cellText(n, colTag)
			if header == nil {
				header = cells
			} else {
				records = append(records, zip(header, cells))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(root)

	return records, nil
}

func cellText(row *html.Node, colTag string) []string {
	var cells []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == colTag {
			cells = append(cells, strings.TrimSpace(textOf(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(row)
	return cells
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(textOf(c))
	}
	return buf.String()
}

func zip(header, cells []string) map[string]any {
	out := make(map[string]any, len(header))
	for i, key := range header {
		if i < len(cells) {
			out[key] = cells[i]
		}
	}
	return out
}

func writeJSONL(path string, records []map[string]any) (int, int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return 0, 0, err
		}
	}
	info, err := f.Stat()
	if err != nil {
		return len(records), 0, err
	}
	return len(records), info.Size(), nil
}
