package postgres

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-portal-service/internal/cache"
)

// commitHooks collects side effects (cache invalidation) that must not run
// before the surrounding transaction commits. A nil *commitHooks means no
// transaction is open, so hooks run immediately.
type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func (h *commitHooks) after(ctx context.Context, fn func(context.Context)) {
	if h == nil {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *commitHooks) run(ctx context.Context) {
	if h == nil {
		return
	}
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn(ctx)
	}
}

// base carries what every sub-repository needs.
type base struct {
	db    *gorm.DB
	cache *cache.CacheManager
	hooks *commitHooks
}

func newBase(db *gorm.DB, cm *cache.CacheManager, hooks *commitHooks) base {
	return base{db: db, cache: cm, hooks: hooks}
}

// readCache returns the helper to read through, or a disabled one inside a
// transaction so uncommitted rows never reach redis.
func (b base) readCache(helper *cache.CacheHelper) *cache.CacheHelper {
	if b.hooks != nil || b.cache == nil {
		return cache.NewCacheHelper(nil, "")
	}
	return helper
}

func applyLimit(query *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return query.Limit(limit)
	}
	return query
}

// handleDBError is a package-level helper for handling database errors
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
