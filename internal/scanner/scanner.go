package scanner

import (
	"context"
	"fmt"
	"time"

	"ArxivDigest/internal/domain"
)

// Listing describes a concrete category listing endpoint provided by config.
type Listing struct {
	Name string
	URL  string
}

// Topic carries the query definition of a single configured topic.
type Topic struct {
	Name       string
	QueryTerms []string
	Categories []string
	Listings   []Listing
}

// Request carries all parameters required to execute a scan.
type Request struct {
	Topic      Topic
	Cutoff     time.Time
	MaxResults int
}

// Scanner captures a single source strategy (export API, HTML listing, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Paper, error)
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
