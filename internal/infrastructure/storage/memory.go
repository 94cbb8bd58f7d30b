package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	invoicingapp "github.com/IndraniBorra/InvoiceManagementStore/internal/application/invoicing"
)

var _ invoicingapp.DocumentArchive = (*MemoryArchive)(nil)

type memoryObject struct {
	contentType string
	data        []byte
}

// MemoryArchive keeps documents in process memory.
// Use it in development and tests when no object storage is configured.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryArchive creates an empty MemoryArchive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]memoryObject)}
}

// Put stores a copy of data under key
func (m *MemoryArchive) Put(_ context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.objects[key] = memoryObject{contentType: contentType, data: buf}
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the object stored under key and its content type
func (m *MemoryArchive) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	buf := make([]byte, len(obj.data))
	copy(buf, obj.data)
	return buf, obj.contentType, nil
}

// Keys returns the stored keys in sorted order
func (m *MemoryArchive) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
