package services

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator issues time-derived ids of the form "<prefix>-<unix millis>".
// Ids are strictly increasing even when two are requested in the same millisecond.
type IDGenerator struct {
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	last int64
}

// NewIDGenerator creates a generator. A nil now uses time.Now.
func NewIDGenerator(prefix string, now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{prefix: prefix, now: now}
}

// Next returns the next id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s-%d", g.prefix, ms)
}
