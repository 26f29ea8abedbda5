package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jblievremont/sonarqube/schema"
)

// StoreManager holds the store shared by the commands of one process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        *Store
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetStore returns the initialized store, or nil before InitStore.
func (mgr *StoreManager) GetStore() *Store {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// InitStore opens the global store. Only the first call has an effect.
func InitStore(ctx context.Context, backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		s, err := Open(ctx, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize store: %w", err)
			return
		}
		Manager.Lock()
		Manager.store = s
		Manager.Unlock()
	})
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}
