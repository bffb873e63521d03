package swlinmemory

import (
	"fmt"
	"sync"

	"tenantlimit/internal/slidingwindowlog"
	"tenantlimit/types"
)

// tenantState is one registry slot: the tenant's timestamp queue and the
// lock that serializes admission checks for that tenant. It is created on
// the first request seen for the tenant and lives until process shutdown.
type tenantState struct {
	mu    sync.Mutex
	queue slidingwindowlog.Queue
}

// registry maps tenant identifiers to their state. Slot creation is lazy and
// guarded by its own lock, separate from the per-tenant operational lock, so
// two callers racing on a tenant's first request cannot double-allocate or
// lose the slot.
//
// The identifier space may be sparse: capacity bounds the number of distinct
// tenants tracked, not the largest identifier.
type registry struct {
	mu         sync.RWMutex
	tenants    map[int]*tenantState
	maxTenants int
}

func newRegistry(maxTenants int) *registry {
	return &registry{
		tenants:    make(map[int]*tenantState, maxTenants),
		maxTenants: maxTenants,
	}
}

// getOrCreate returns the state for tenantID, creating it on first sight.
// Invalid identifiers and creations beyond capacity fail explicitly rather
// than corrupting shared state.
func (r *registry) getOrCreate(tenantID int) (*tenantState, error) {
	if tenantID < 0 {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, types.ErrTenantOutOfRange)
	}

	r.mu.RLock()
	state, ok := r.tenants[tenantID]
	r.mu.RUnlock()
	if ok {
		return state, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check under the write lock: another caller may have created the
	// slot between the RUnlock and the Lock.
	if state, ok := r.tenants[tenantID]; ok {
		return state, nil
	}
	if len(r.tenants) >= r.maxTenants {
		return nil, fmt.Errorf("tenant %d: %w (max %d)", tenantID, types.ErrRegistryFull, r.maxTenants)
	}
	state = &tenantState{}
	r.tenants[tenantID] = state
	return state, nil
}

// get returns the state for tenantID, or nil if the tenant was never seen.
func (r *registry) get(tenantID int) *tenantState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tenants[tenantID]
}
