package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory ProjectStore/PublicationStore used by the
// preview server and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*Project
	pubs     map[string]*Publication
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*Project),
		pubs:     make(map[string]*Publication),
	}
}

func (s *MemoryStore) Put(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, owner string) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Project
	for _, p := range s.projects {
		if p.Owner == owner {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) CountProjects(_ context.Context, owner string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.projects {
		if p.Owner == owner {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) PutPublication(_ context.Context, pub *Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pubs[pub.Subdomain]; ok && existing.ProjectID != pub.ProjectID {
		return fmt.Errorf("subdomain %q already taken", pub.Subdomain)
	}
	for sub, existing := range s.pubs {
		if existing.ProjectID == pub.ProjectID && sub != pub.Subdomain {
			delete(s.pubs, sub)
		}
	}
	cp := *pub
	s.pubs[pub.Subdomain] = &cp
	return nil
}

func (s *MemoryStore) GetPublicationBySubdomain(_ context.Context, subdomain string) (*Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pub, ok := s.pubs[subdomain]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *pub
	return &cp, nil
}

func (s *MemoryStore) GetPublicationByProject(_ context.Context, projectID string) (*Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pub := range s.pubs {
		if pub.ProjectID == projectID {
			cp := *pub
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeletePublication(_ context.Context, subdomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pubs[subdomain]; !ok {
		return ErrNotFound
	}
	delete(s.pubs, subdomain)
	return nil
}

func (s *MemoryStore) ListPublications(_ context.Context) ([]*Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Publication, 0, len(s.pubs))
	for _, pub := range s.pubs {
		cp := *pub
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subdomain < out[j].Subdomain })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var (
	_ ProjectStore     = (*MemoryStore)(nil)
	_ PublicationStore = (*MemoryStore)(nil)
)
