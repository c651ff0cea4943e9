package memory

import (
	"context"
	"sync"

	"github.com/mhollander/limen/internal/limen/store"
)

// AuditLog is an in-memory append-only log of access events. Growth is
// unbounded within the process lifetime; retention is a deployment
// concern outside this core.
type AuditLog struct {
	mu     sync.Mutex
	events []store.AccessEvent
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Append(_ context.Context, ev store.AccessEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

// Recent copies under the lock and releases before the caller formats or
// serializes anything.
func (l *AuditLog) Recent(_ context.Context, limit int) ([]store.AccessEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > len(l.events) {
		limit = len(l.events)
	}

	out := make([]store.AccessEvent, 0, limit)
	for i := len(l.events) - 1; i >= len(l.events)-limit; i-- {
		out = append(out, l.events[i])
	}
	return out, nil
}

func (l *AuditLog) Len(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events), nil
}
