package genstore

import (
	"context"
	"sort"
	"sync"
)

// Local keeps the generation registry in-process (default).
// Generations are purged explicitly by activation, so no background
// cleanup loop is needed.
type Local struct {
	mu      sync.RWMutex
	current string
	members map[string]map[string]struct{} // label -> storage key set
}

var _ GenStore = (*Local)(nil)

func NewLocal() *Local {
	return &Local{members: make(map[string]map[string]struct{})}
}

func (s *Local) Register(_ context.Context, label string) error {
	s.mu.Lock()
	if _, ok := s.members[label]; !ok {
		s.members[label] = make(map[string]struct{})
	}
	s.mu.Unlock()
	return nil
}

func (s *Local) SetCurrent(_ context.Context, label string) error {
	s.mu.Lock()
	if _, ok := s.members[label]; !ok {
		s.members[label] = make(map[string]struct{})
	}
	s.current = label
	s.mu.Unlock()
	return nil
}

func (s *Local) Current(_ context.Context) (string, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	return cur, nil
}

func (s *Local) AddKey(_ context.Context, label, storageKey string) error {
	s.mu.Lock()
	set, ok := s.members[label]
	if !ok {
		set = make(map[string]struct{})
		s.members[label] = set
	}
	set[storageKey] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Keys returns the members sorted for deterministic iteration.
func (s *Local) Keys(_ context.Context, label string) ([]string, error) {
	s.mu.RLock()
	set := s.members[label]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

func (s *Local) Labels(_ context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.members))
	for l := range s.members {
		out = append(out, l)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

func (s *Local) Drop(_ context.Context, label string) error {
	s.mu.Lock()
	delete(s.members, label)
	if s.current == label {
		s.current = ""
	}
	s.mu.Unlock()
	return nil
}

func (s *Local) Close(_ context.Context) error { return nil }
