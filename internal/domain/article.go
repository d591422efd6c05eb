package domain

import "time"

// Article is the unit of record. The canonical Link is the natural key:
// re-ingesting the same link updates mutable fields instead of creating a row.
type Article struct {
	ID        int64
	Title     string
	Link      string
	Published time.Time
	Source    string
	RawText   string
	Summary   string
	Keywords  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Favorite marks exactly one article; unique per article.
type Favorite struct {
	ArticleID int64
	CreatedAt time.Time
}

// Outcome classifies the result of processing a single feed entry.
type Outcome string

const (
	OutcomeInserted       Outcome = "inserted"
	OutcomeUpdated        Outcome = "updated"
	OutcomeSkipped        Outcome = "skipped"
	OutcomeSkippedNonTech Outcome = "skipped_nontech"
)

// FeedEntry is a raw item pulled from an RSS/Atom document before the
// per-entry pipeline runs.
type FeedEntry struct {
	Title     string
	Link      string
	Published string
	Updated   string
	Summary   string
}

// PageStat records what a single feed page contributed, for the report trail.
type PageStat struct {
	URL     string
	Entries int
	Err     string
}

// Report carries per-feed outcome counts plus the per-page log trail.
type Report struct {
	Source         string
	Inserted       int
	Updated        int
	Skipped        int
	SkippedNonTech int
	Pages          []PageStat
}

// Total returns the number of entries that reached a terminal outcome.
func (r Report) Total() int {
	return r.Inserted + r.Updated + r.Skipped + r.SkippedNonTech
}

// Add counts one entry outcome.
func (r *Report) Add(o Outcome) {
	switch o {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkippedNonTech:
		r.SkippedNonTech++
	default:
		r.Skipped++
	}
}
