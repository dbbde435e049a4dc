package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/taxonomy"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

const taxonomyCacheKey = "taxonomy:options"

// TaxonomyProvider yields a point-in-time snapshot of the dropdown
// taxonomy.
type TaxonomyProvider interface {
	Snapshot(ctx context.Context) (*taxonomy.Snapshot, error)
}

// TaxonomyService loads the dropdown-option tree, caching the raw option
// list in Redis. Mutations to the option table must call Invalidate.
type TaxonomyService struct {
	options repository.DropdownRepository
	cache   *persistence.Redis
	ttl     time.Duration
	logger  *zap.Logger
}

// NewTaxonomyService creates the service. cache may be nil, in which case
// every snapshot hits the database.
func NewTaxonomyService(options repository.DropdownRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *TaxonomyService {
	return &TaxonomyService{options: options, cache: cache, ttl: ttl, logger: logger}
}

// Snapshot returns the current taxonomy snapshot, from cache when fresh.
func (s *TaxonomyService) Snapshot(ctx context.Context) (*taxonomy.Snapshot, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	options, err := s.options.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.storeCache(ctx, options)
	return taxonomy.NewSnapshot(options), nil
}

// Invalidate drops the cached option list. Called after any dropdown
// mutation so the next snapshot reloads from the database.
func (s *TaxonomyService) Invalidate(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, taxonomyCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate taxonomy cache", zap.Error(err))
	}
}

func (s *TaxonomyService) fromCache(ctx context.Context) *taxonomy.Snapshot {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, taxonomyCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var options []domain.DropdownOption
	if err := json.Unmarshal(raw, &options); err != nil {
		s.logger.Warn("corrupt taxonomy cache entry; reloading", zap.Error(err))
		return nil
	}
	return taxonomy.NewSnapshot(options)
}

func (s *TaxonomyService) storeCache(ctx context.Context, options []domain.DropdownOption) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, taxonomyCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache taxonomy snapshot", zap.Error(err))
	}
}
