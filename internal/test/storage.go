package test

import (
	"context"
	"sync"
)

// FileStoreStub keeps uploaded objects in memory.
type FileStoreStub struct {
	mu sync.Mutex

	Objects   map[string][]byte
	PutErr    map[string]error
	DeleteErr error
	Deleted   []string
	BaseURL   string
}

// Put stores data unless a failure is configured for key.
func (s *FileStoreStub) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.PutErr[key]; err != nil {
		return "", err
	}
	if s.Objects == nil {
		s.Objects = make(map[string][]byte)
	}
	s.Objects[key] = body
	base := s.BaseURL
	if base == "" {
		base = "https://files.test"
	}
	return base + "/" + key, nil
}

// Delete removes key and records the call.
func (s *FileStoreStub) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, key)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, key)
	return nil
}
