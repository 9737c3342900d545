// Package qdntest provides DocumentStore doubles for tests.
package qdntest

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/qdn-tickets/ticket-service/internal/domain"
	"github.com/qdn-tickets/ticket-service/internal/qdn"
)

// DocumentStore is a mock for qdn.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) FetchResourceObject(ctx context.Context, ref qdn.ResourceRef) (*qdn.Resource, error) {
	args := m.Called(ctx, ref)
	if res, ok := args.Get(0).(*qdn.Resource); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// MemoryStore serves documents from a map and records every ref it is asked for.
type MemoryStore struct {
	mu        sync.Mutex
	resources map[qdn.ResourceRef]qdn.Resource
	raw       map[qdn.ResourceRef][]byte
	failures  map[qdn.ResourceRef]error
	calls     []qdn.ResourceRef
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources: make(map[qdn.ResourceRef]qdn.Resource),
		raw:       make(map[qdn.ResourceRef][]byte),
		failures:  make(map[qdn.ResourceRef]error),
	}
}

// Put stores doc under the DOCUMENT service.
func (s *MemoryStore) Put(name, identifier string, doc domain.Document) {
	ref := qdn.DocumentRef(name, identifier)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[ref] = qdn.Resource{Ref: ref, Document: doc}
}

// PutRaw stores an undecoded body; fetches decode it with qdn.DecodeResource
// the way the HTTP client and the mirrors do.
func (s *MemoryStore) PutRaw(name, identifier string, body string) {
	ref := qdn.DocumentRef(name, identifier)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[ref] = []byte(body)
}

// Fail makes fetches of (name, identifier) return a KindFailure error wrapping err.
func (s *MemoryStore) Fail(name, identifier string, err error) {
	ref := qdn.DocumentRef(name, identifier)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[ref] = qdn.Failure(ref, 0, err)
}

func (s *MemoryStore) FetchResourceObject(_ context.Context, ref qdn.ResourceRef) (*qdn.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ref)
	if err, ok := s.failures[ref]; ok {
		return nil, err
	}
	if body, ok := s.raw[ref]; ok {
		return qdn.DecodeResource(ref, body)
	}
	res, ok := s.resources[ref]
	if !ok {
		return nil, qdn.NotFound(ref)
	}
	return &res, nil
}

// Calls returns the refs fetched so far, in order.
func (s *MemoryStore) Calls() []qdn.ResourceRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]qdn.ResourceRef(nil), s.calls...)
}
