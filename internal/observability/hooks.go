package observability

import (
	"sync"
	"time"

	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
)

// WriteStats counts aggregate write outcomes. It satisfies the hook interface
// the write path expects and keeps totals queryable for diagnostics.
type WriteStats struct {
	log *logger.Logger

	mu        sync.Mutex
	ops       map[string]int
	conflicts map[string]int
	retries   map[string]int
}

func NewWriteStats(log *logger.Logger) *WriteStats {
	return &WriteStats{
		log:       log.With("component", "WriteStats"),
		ops:       map[string]int{},
		conflicts: map[string]int{},
		retries:   map[string]int{},
	}
}

func (ws *WriteStats) ObserveOperation(name, status string, elapsed time.Duration) {
	ws.mu.Lock()
	ws.ops[name]++
	ws.mu.Unlock()
	if status != "success" {
		ws.log.Warn("aggregate write finished", "op", name, "status", status, "elapsed_ms", elapsed.Milliseconds())
		return
	}
	ws.log.Debug("aggregate write finished", "op", name, "status", status, "elapsed_ms", elapsed.Milliseconds())
}

func (ws *WriteStats) IncConflict(name string) {
	ws.mu.Lock()
	ws.conflicts[name]++
	ws.mu.Unlock()
}

func (ws *WriteStats) IncRetry(name string) {
	ws.mu.Lock()
	ws.retries[name]++
	ws.mu.Unlock()
}

// Totals returns copies of the counters.
func (ws *WriteStats) Totals() (ops, conflicts, retries map[string]int) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ops = copyCounts(ws.ops)
	conflicts = copyCounts(ws.conflicts)
	retries = copyCounts(ws.retries)
	return ops, conflicts, retries
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
