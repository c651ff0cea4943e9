package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mhollander/limen/internal/limen/store"
	"github.com/mhollander/limen/internal/limen/store/memory"
)

func person(faceID, name string) store.Person {
	return store.Person{
		FaceID:     faceID,
		Name:       name,
		EnrolledAt: time.Now().UTC(),
	}
}

// ── Insert / List ────────────────────────────────────────────────────────────

func TestPersonStore_InsertAndList(t *testing.T) {
	s := memory.NewPersonStore()
	ctx := context.Background()

	if err := s.Insert(ctx, person("f1", "alice")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, person("f2", "bob")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestPersonStore_EmptyList(t *testing.T) {
	s := memory.NewPersonStore()

	names, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}
}

func TestPersonStore_DuplicateFaceID(t *testing.T) {
	s := memory.NewPersonStore()
	ctx := context.Background()

	if err := s.Insert(ctx, person("f1", "alice")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := s.Insert(ctx, person("f1", "alice again"))
	if !errors.Is(err, store.ErrDuplicateFaceID) {
		t.Fatalf("expected ErrDuplicateFaceID, got %v", err)
	}

	// The original record must be untouched.
	names, _ := s.List(ctx)
	if len(names) != 1 || names[0] != "alice" {
		t.Errorf("expected [alice], got %v", names)
	}
}

func TestPersonStore_DuplicateNamesAllowed(t *testing.T) {
	// Re-enrollment creates a second record under a new face id; names
	// are returned as-is with no dedup.
	s := memory.NewPersonStore()
	ctx := context.Background()

	_ = s.Insert(ctx, person("f1", "alice"))
	_ = s.Insert(ctx, person("f2", "alice"))

	names, _ := s.List(ctx)
	if len(names) != 2 {
		t.Fatalf("expected 2 entries, got %v", names)
	}
	if names[0] != "alice" || names[1] != "alice" {
		t.Errorf("expected duplicate alice entries, got %v", names)
	}
}

// ── Reconcile ────────────────────────────────────────────────────────────────

func TestPersonStore_Reconcile(t *testing.T) {
	s := memory.NewPersonStore()
	ctx := context.Background()

	n, err := s.Reconcile(ctx, []store.Person{
		person("f1", "alice"),
		person("f2", "bob"),
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 loaded, got %d", n)
	}

	count, _ := s.Len(ctx)
	if count != 2 {
		t.Errorf("expected len 2, got %d", count)
	}
}

func TestPersonStore_ReconcileEmpty(t *testing.T) {
	s := memory.NewPersonStore()

	n, err := s.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("reconcile of empty collection must not fail: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 loaded, got %d", n)
	}
}

func TestPersonStore_ReconcileSkipsKnownAndBlankIDs(t *testing.T) {
	s := memory.NewPersonStore()
	ctx := context.Background()

	_ = s.Insert(ctx, person("f1", "alice"))

	n, err := s.Reconcile(ctx, []store.Person{
		person("f1", "alice"), // already present
		person("", "ghost"),   // provider should never return this
		person("f2", "bob"),
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 newly loaded, got %d", n)
	}

	count, _ := s.Len(ctx)
	if count != 2 {
		t.Errorf("expected len 2, got %d", count)
	}
}

// ── Concurrency ──────────────────────────────────────────────────────────────

func TestPersonStore_ConcurrentInserts(t *testing.T) {
	s := memory.NewPersonStore()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = s.Insert(ctx, person(fmt.Sprintf("f%d", i), "worker"))
		}(i)
	}
	wg.Wait()

	count, _ := s.Len(ctx)
	if count != n {
		t.Errorf("expected %d records, got %d", n, count)
	}
}
