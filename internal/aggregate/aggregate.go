// Package aggregate computes the read-side keyword statistics: frequency
// tables, co-occurrence graphs, time series and rising-keyword lift.
package aggregate

import (
	"math"
	"sort"
	"time"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/textfilter"
)

// Bucket selects the calendar granularity of time aggregation.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// Engine aggregates over a document set. StrictTech restricts every
// keyword statistic to tech terms, mirroring the extractor toggle.
type Engine struct {
	lexicon    textfilter.Lexicon
	strictTech bool
}

// New builds an engine.
func New(lexicon textfilter.Lexicon, strictTech bool) *Engine {
	return &Engine{lexicon: lexicon, strictTech: strictTech}
}

// KeywordCount is one row of the frequency table.
type KeywordCount struct {
	Keyword string
	Count   int
}

// BucketCount is one point of the time series.
type BucketCount struct {
	Start time.Time
	Count int
}

// Lift scores one rising keyword. Infinite entries (absent from the
// previous window, at least twice in the recent one) always rank above
// finite ones.
type Lift struct {
	Keyword  string
	Recent   int
	Previous int
	Score    float64
	Infinite bool
}

// KeywordCounts flattens all keyword lists, drops noise, and returns the
// topK most frequent keywords, ties broken lexicographically.
func (e *Engine) KeywordCounts(articles []domain.Article, topK int) []KeywordCount {
	bag := e.bag(articles)

	out := make([]KeywordCount, 0, len(bag))
	for kw, n := range bag {
		out = append(out, KeywordCount{Keyword: kw, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// Cooccurrence counts unordered keyword pairs per document and keeps
// edges whose weight reaches minWeight. The adjacency map is symmetric.
func (e *Engine) Cooccurrence(articles []domain.Article, minWeight int) map[string]map[string]int {
	if minWeight < 1 {
		minWeight = 1
	}

	type pair struct{ a, b string }
	weights := map[pair]int{}
	for _, art := range articles {
		kws := e.usable(art.Keywords)
		for i := 0; i < len(kws); i++ {
			for j := i + 1; j < len(kws); j++ {
				a, b := kws[i], kws[j]
				if b < a {
					a, b = b, a
				}
				weights[pair{a, b}]++
			}
		}
	}

	adj := map[string]map[string]int{}
	for p, w := range weights {
		if w < minWeight {
			continue
		}
		if adj[p.a] == nil {
			adj[p.a] = map[string]int{}
		}
		if adj[p.b] == nil {
			adj[p.b] = map[string]int{}
		}
		adj[p.a][p.b] = w
		adj[p.b][p.a] = w
	}
	return adj
}

// TimeBuckets groups documents by the calendar bucket of their publish
// time. Empty input yields an empty, non-nil series.
func (e *Engine) TimeBuckets(articles []domain.Article, bucket Bucket) []BucketCount {
	counts := map[time.Time]int{}
	for _, art := range articles {
		if art.Published.IsZero() {
			continue
		}
		counts[bucketStart(art.Published, bucket)]++
	}

	out := make([]BucketCount, 0, len(counts))
	for start, n := range counts {
		out = append(out, BucketCount{Start: start, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// RisingKeywords compares the most recent 7-day window (anchored at the
// newest publish time) against the preceding 7 days and ranks keywords
// by lift. Keywords new to the recent window with at least two mentions
// get infinite lift and sort first.
func (e *Engine) RisingKeywords(articles []domain.Article, topN int) []Lift {
	var anchor time.Time
	for _, art := range articles {
		if art.Published.After(anchor) {
			anchor = art.Published
		}
	}
	if anchor.IsZero() {
		return []Lift{}
	}

	weekAgo := anchor.AddDate(0, 0, -7)
	twoWeeksAgo := anchor.AddDate(0, 0, -14)

	var recent, previous []domain.Article
	for _, art := range articles {
		p := art.Published
		switch {
		case !p.Before(weekAgo):
			recent = append(recent, art)
		case !p.Before(twoWeeksAgo):
			previous = append(previous, art)
		}
	}

	recentBag := e.bag(recent)
	prevBag := e.bag(previous)

	var lifts []Lift
	for kw, n := range recentBag {
		base := prevBag[kw]
		switch {
		case base == 0 && n >= 2:
			lifts = append(lifts, Lift{Keyword: kw, Recent: n, Score: math.Inf(1), Infinite: true})
		case base > 0:
			lifts = append(lifts, Lift{Keyword: kw, Recent: n, Previous: base, Score: float64(n) / float64(base)})
		}
	}

	sort.Slice(lifts, func(i, j int) bool {
		if lifts[i].Infinite != lifts[j].Infinite {
			return lifts[i].Infinite
		}
		if lifts[i].Infinite {
			if lifts[i].Recent != lifts[j].Recent {
				return lifts[i].Recent > lifts[j].Recent
			}
			return lifts[i].Keyword < lifts[j].Keyword
		}
		if lifts[i].Score != lifts[j].Score {
			return lifts[i].Score > lifts[j].Score
		}
		return lifts[i].Keyword < lifts[j].Keyword
	})

	if topN > 0 && len(lifts) > topN {
		lifts = lifts[:topN]
	}
	return lifts
}

func (e *Engine) bag(articles []domain.Article) map[string]int {
	bag := map[string]int{}
	for _, art := range articles {
		for _, kw := range e.usable(art.Keywords) {
			bag[kw]++
		}
	}
	return bag
}

func (e *Engine) usable(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if e.lexicon.IsMeaningless(kw) {
			continue
		}
		if e.strictTech && !e.lexicon.IsTechTerm(kw) {
			continue
		}
		out = append(out, kw)
	}
	return out
}

func bucketStart(t time.Time, bucket Bucket) time.Time {
	t = t.UTC()
	switch bucket {
	case BucketWeek:
		day := t
		for day.Weekday() != time.Monday {
			day = day.AddDate(0, 0, -1)
		}
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}
