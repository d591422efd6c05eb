package scanner

import (
	"context"
	"fmt"

	"NewsAgent/internal/domain"
)

// Feed describes a concrete feed endpoint provided by config.
type Feed struct {
	Source string
	URL    string
}

// Request carries all parameters required to execute a scan.
type Request struct {
	Feed          Feed
	BackfillPages int
	MaxPerPage    int
	MaxTotal      int
}

// Result is the collected entry set for one feed plus the per-page
// fetch trail.
type Result struct {
	Entries []domain.FeedEntry
	Pages   []domain.PageStat
}

// Scanner captures a single source strategy implementation (RSS, and
// whatever scrapers get added later).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) (Result, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
