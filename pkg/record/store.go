package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// KV is the flat key-value substrate records are persisted in. Implemented by
// the backends in pkg/kv.
type KV interface {
	Get(ctx context.Context, id string) ([]byte, bool, error)
	Put(ctx context.Context, id string, data []byte) error
}

// StoreError wraps any failure to read or write a record. It aborts the
// current turn.
type StoreError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store: %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store loads and saves UserRecords and serializes turns per user.
type Store struct {
	kv KV

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore(kv KV) *Store {
	return &Store{
		kv:    kv,
		locks: make(map[string]*userLock),
	}
}

// Lock blocks until the caller holds the turn lock for id. The returned
// function releases it.
func (s *Store) Lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &userLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Load returns the record for id. A missing record is created with default
// values and persisted before it is returned.
func (s *Store) Load(ctx context.Context, id string) (*UserRecord, error) {
	data, ok, err := s.kv.Get(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "get", ID: id, Err: err}
	}
	if !ok {
		rec := New(id)
		if err := s.Save(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	var rec UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &StoreError{Op: "decode", ID: id, Err: err}
	}
	Normalize(&rec, id)
	return &rec, nil
}

// Save writes the whole record.
func (s *Store) Save(ctx context.Context, rec *UserRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &StoreError{Op: "encode", ID: rec.ID, Err: err}
	}
	if err := s.kv.Put(ctx, rec.ID, data); err != nil {
		return &StoreError{Op: "put", ID: rec.ID, Err: err}
	}
	return nil
}
