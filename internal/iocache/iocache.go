// Package iocache persists fetched sources and ranking history.
package iocache

import (
	"sync"

	"github.com/elcfinder/elcfinder/internal/contract"
)

// StoreManagerImpl manages the source cache and history store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	source       contract.SourceCache
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetSourceCache returns the source cache, or nil when caching is disabled.
func (mgr *StoreManagerImpl) GetSourceCache() contract.SourceCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.source
}

// GetHistoryStore returns the history store, or nil when history is disabled.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
