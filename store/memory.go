package store

import (
	"context"
	"sort"
	"sync"

	"github.com/blockward/blockward-backend/interfaces"
)

// MemoryStore is an in-process interfaces.Datastore for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	students map[string]interfaces.StudentProfile
	issuers  map[string]interfaces.IssuerProfile
	records  []interfaces.BlockWardRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		students: make(map[string]interfaces.StudentProfile),
		issuers:  make(map[string]interfaces.IssuerProfile),
	}
}

func (s *MemoryStore) PutStudent(ctx context.Context, p *interfaces.StudentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[p.ID] = *p
	return nil
}

func (s *MemoryStore) PutIssuer(ctx context.Context, p *interfaces.IssuerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuers[p.ID] = *p
	return nil
}

func (s *MemoryStore) StudentProfile(ctx context.Context, id string) (*interfaces.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.students[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) IssuerProfile(ctx context.Context, id string) (*interfaces.IssuerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.issuers[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateRecord(ctx context.Context, record *interfaces.BlockWardRecord) error {
	prepareRecord(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == record.ID || r.TxHash == record.TxHash {
			return interfaces.ErrDuplicateRecord
		}
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *MemoryStore) Record(ctx context.Context, id string) (*interfaces.BlockWardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (s *MemoryStore) RecordsForStudent(ctx context.Context, studentID string) ([]interfaces.BlockWardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []interfaces.BlockWardRecord{}
	for _, r := range s.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func (s *MemoryStore) RecordsInBlockRange(ctx context.Context, fromBlock, toBlock uint64) ([]interfaces.BlockWardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []interfaces.BlockWardRecord{}
	for _, r := range s.records {
		if r.BlockNumber >= fromBlock && r.BlockNumber <= toBlock {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BlockNumber < out[j].BlockNumber })
	return out, nil
}

// Records returns every stored record in insertion order.
func (s *MemoryStore) Records() []interfaces.BlockWardRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]interfaces.BlockWardRecord(nil), s.records...)
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Name() string { return "memory" }
