package memory

import (
	"context"
	"sync"

	"github.com/mhollander/limen/internal/limen/store"
)

// PersonStore is the in-memory identity registry. A single mutex guards
// the map; critical sections cover only the map mutation or snapshot so
// a held lock never spans a network call.
type PersonStore struct {
	mu     sync.RWMutex
	people map[string]store.Person // keyed by FaceID
}

func NewPersonStore() *PersonStore {
	return &PersonStore{
		people: make(map[string]store.Person),
	}
}

func (s *PersonStore) Insert(_ context.Context, p store.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[p.FaceID]; ok {
		return store.ErrDuplicateFaceID
	}
	s.people[p.FaceID] = p
	return nil
}

func (s *PersonStore) Reconcile(_ context.Context, people []store.Person) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range people {
		if p.FaceID == "" {
			continue
		}
		if _, ok := s.people[p.FaceID]; ok {
			continue
		}
		s.people[p.FaceID] = p
		n++
	}
	return n, nil
}

func (s *PersonStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.people))
	for _, p := range s.people {
		names = append(names, p.Name)
	}
	return names, nil
}

func (s *PersonStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people), nil
}
