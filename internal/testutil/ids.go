package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator hands out "<prefix>-0001", "<prefix>-0002", ...
//
// It stands in for UUIDv7 run IDs so that stored runs and their golden
// output are byte-identical between test runs. Safe for concurrent use.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix means "run".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// NewID returns the next ID.
func (g *SequentialIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
