package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryViewInvalidator is an in-process view cache with invalidation.
// Intended for development and single-instance deployments where Redis
// is not available.
type MemoryViewInvalidator struct {
	mu    sync.RWMutex
	views map[string][]byte
}

// NewMemoryViewInvalidator creates an in-memory view invalidator
func NewMemoryViewInvalidator() *MemoryViewInvalidator {
	return &MemoryViewInvalidator{
		views: make(map[string][]byte),
	}
}

// Put stores a rendered view under the given key
func (i *MemoryViewInvalidator) Put(key string, payload []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.views[key] = payload
}

// Get returns a cached view, if present
func (i *MemoryViewInvalidator) Get(key string) ([]byte, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	payload, ok := i.views[key]
	return payload, ok
}

// InvalidateMemberViews removes every cached view keyed by the member
func (i *MemoryViewInvalidator) InvalidateMemberViews(_ context.Context, memberID uuid.UUID) error {
	prefix := "views:member:" + memberID.String()

	i.mu.Lock()
	defer i.mu.Unlock()
	for key := range i.views {
		if strings.HasPrefix(key, prefix) {
			delete(i.views, key)
		}
	}
	return nil
}

// Len returns the number of cached views
func (i *MemoryViewInvalidator) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.views)
}
