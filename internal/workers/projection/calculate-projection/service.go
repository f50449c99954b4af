package calculateprojection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"
	"wind-workers/internal/windfarm/engine"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const cacheKeyPrefix = "projection:v1:"

// ProjectionCache is satisfied by database.RedisClient.
type ProjectionCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Telemetry is satisfied by observability.Observability.
type Telemetry interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
	RecordCapacityFactor(ctx context.Context, formula string, cf float64)
}

type noopTelemetry struct{}

func (noopTelemetry) StartSpan(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(ctx)
}

func (noopTelemetry) RecordCapacityFactor(context.Context, string, float64) {}

type Service struct {
	cache     ProjectionCache
	ttl       time.Duration
	telemetry Telemetry
	logger    logger.Logger
}

func NewService(cache ProjectionCache, ttl time.Duration, telemetry Telemetry, log logger.Logger) *Service {
	if telemetry == nil {
		telemetry = noopTelemetry{}
	}
	return &Service{cache: cache, ttl: ttl, telemetry: telemetry, logger: log}
}

type cacheEntry struct {
	Formula    engine.Formula           `json:"formula"`
	Parameters engine.ProjectParameters `json:"parameters"`
}

// CacheKey is stable for equal inputs since the engine is deterministic.
func CacheKey(formula engine.Formula, p engine.ProjectParameters) string {
	data, _ := json.Marshal(cacheEntry{Formula: formula, Parameters: p})
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Project returns the projection for p, from cache when possible. Cache failures
// are logged and never fail the request; an engine rejection is CALCULATION_FAILED.
func (s *Service) Project(ctx context.Context, formula engine.Formula, p engine.ProjectParameters) (engine.ProjectionResult, bool, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "projection.compute",
		attribute.String("formula", string(formula)),
		attribute.Int("lifetime_years", p.LifetimeYears),
		attribute.Float64("capacity_mw", p.CapacityMW),
	)
	defer span.End()

	key := CacheKey(formula, p)

	if s.cache != nil {
		var cached engine.ProjectionResult
		found, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.ProjectionCacheResults.WithLabelValues("error").Inc()
			s.logger.Warn("projection cache read failed", map[string]interface{}{"error": err, "key": key})
		case found:
			metrics.ProjectionCacheResults.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cache_hit", true))
			s.telemetry.RecordCapacityFactor(ctx, string(formula), cached.CapacityFactor)
			return cached, true, nil
		default:
			metrics.ProjectionCacheResults.WithLabelValues("miss").Inc()
		}
	}

	result, err := engine.ComputeWith(formula, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return engine.ProjectionResult{}, false, errors.NewCalculationFailedError(err)
	}
	span.SetAttributes(attribute.Float64("capacity_factor", result.CapacityFactor))
	s.telemetry.RecordCapacityFactor(ctx, string(formula), result.CapacityFactor)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result, s.ttl); err != nil {
			metrics.ProjectionCacheResults.WithLabelValues("error").Inc()
			s.logger.Warn("projection cache write failed", map[string]interface{}{"error": err, "key": key})
		}
	}

	return result, false, nil
}
