// Package revalidate defines the cache revalidation boundary: after a
// mutating operation, the presentation layer is told to refetch data for a
// named page.
package revalidate

import (
	"log/slog"
	"sync"
)

// Revalidator receives revalidation signals keyed by page name.
type Revalidator interface {
	Revalidate(page string)
}

// Broadcast is an in-memory Revalidator that tracks a generation counter per
// page and notifies subscribers. Pollers compare generations to decide
// whether to refetch.
type Broadcast struct {
	mu          sync.RWMutex
	generations map[string]uint64
	watchers    []chan string
	logger      *slog.Logger
}

// NewBroadcast creates an empty Broadcast revalidator.
func NewBroadcast(logger *slog.Logger) *Broadcast {
	return &Broadcast{
		generations: make(map[string]uint64),
		logger:      logger.With("system", "revalidate"),
	}
}

// Revalidate bumps the page's generation and notifies watchers.
// Watchers with full buffers are skipped rather than blocked on.
func (b *Broadcast) Revalidate(page string) {
	b.mu.Lock()
	b.generations[page]++
	watchers := make([]chan string, len(b.watchers))
	copy(watchers, b.watchers)
	b.mu.Unlock()

	b.logger.Debug("revalidate", "page", page)

	for _, w := range watchers {
		select {
		case w <- page:
		default:
		}
	}
}

// Generation returns the current generation for a page. Pages never
// revalidated report zero.
func (b *Broadcast) Generation(page string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.generations[page]
}

// Watch returns a buffered channel receiving page names as they are
// revalidated.
func (b *Broadcast) Watch() <-chan string {
	ch := make(chan string, 16)
	b.mu.Lock()
	b.watchers = append(b.watchers, ch)
	b.mu.Unlock()
	return ch
}
