package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tennis-analyzer/internal/cache"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/logger"

	"go.uber.org/zap"
)

const DefaultAnalysisCacheTTL = 10 * time.Minute

// AnalysisCacheService caches stored analyses by id. Records are immutable
// after creation, so only deletes need to invalidate.
type AnalysisCacheService interface {
	GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error)
	PutAnalysis(ctx context.Context, analysis *domain.Analysis) error
	InvalidateAnalysis(ctx context.Context, id int64) error
}

type analysisCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewAnalysisCacheService creates a cache service. A non-positive ttl uses the default.
func NewAnalysisCacheService(c domain.Cache, ttl time.Duration) AnalysisCacheService {
	if ttl <= 0 {
		ttl = DefaultAnalysisCacheTTL
	}
	return &analysisCacheServiceImpl{cache: c, ttl: ttl}
}

func analysisCacheKey(id int64) string {
	return cache.RecordKey("analysis", id)
}

// GetAnalysis returns (nil, nil) on a miss.
func (s *analysisCacheServiceImpl) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	if s.cache == nil {
		return nil, nil
	}
	raw, err := s.cache.Get(ctx, analysisCacheKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("AnalysisCacheService: cache miss", zap.Int64("analysisID", id))
			return nil, nil
		}
		return nil, err
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		logger.Get().Warn("AnalysisCacheService: dropping undecodable cache entry",
			zap.Int64("analysisID", id), zap.Error(err))
		_ = s.cache.Delete(ctx, analysisCacheKey(id))
		return nil, nil
	}
	return &analysis, nil
}

func (s *analysisCacheServiceImpl) PutAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	if s.cache == nil || analysis == nil {
		return nil
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, analysisCacheKey(analysis.ID), string(payload), s.ttl)
}

func (s *analysisCacheServiceImpl) InvalidateAnalysis(ctx context.Context, id int64) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, analysisCacheKey(id))
}
