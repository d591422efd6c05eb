// Package export flattens a filtered document set into records for
// JSON/CSV output.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"NewsAgent/internal/domain"
)

// Record is one flat export row.
type Record struct {
	Title     string   `json:"title"`
	Link      string   `json:"link"`
	Published string   `json:"published"`
	Source    string   `json:"source"`
	Summary   string   `json:"summary"`
	Keywords  []string `json:"keywords"`
}

// Records converts articles into export rows, preserving order.
func Records(articles []domain.Article) []Record {
	out := make([]Record, 0, len(articles))
	for _, art := range articles {
		published := ""
		if !art.Published.IsZero() {
			published = art.Published.UTC().Format(time.RFC3339)
		}
		out = append(out, Record{
			Title:     art.Title,
			Link:      art.Link,
			Published: published,
			Source:    art.Source,
			Summary:   art.Summary,
			Keywords:  art.Keywords,
		})
	}
	return out
}

// WriteJSON renders the records as indented JSON.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteCSV renders the records with a header row; keyword lists are
// joined with "; " inside a single cell.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"title", "link", "published", "source", "summary", "keywords"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Title, rec.Link, rec.Published, rec.Source, rec.Summary, strings.Join(rec.Keywords, "; ")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
