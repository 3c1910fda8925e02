package rates

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/finflow/finflow-server/internal/logging"
)

type ProviderConfig struct {
	CacheKey     string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// Provider serves rate snapshots from the cache, refreshing from the source on a miss and
// degrading to the static fallback table when both are unavailable. It never fails.
type Provider struct {
	cache   Cache
	source  Source
	config  ProviderConfig
	log     logrus.FieldLogger
	metrics *Metrics
	group   singleflight.Group
}

func NewProvider(cache Cache, source Source, config ProviderConfig, log logrus.FieldLogger, metrics *Metrics) *Provider {
	return &Provider{
		cache:   cache,
		source:  source,
		config:  config,
		log:     log,
		metrics: metrics,
	}
}

// Rates returns the current snapshot. A cache miss refreshes inline and concurrent misses
// share one fetch.
func (p *Provider) Rates(ctx context.Context) Snapshot {
	defer logging.StartTiming(ctx, "ratesDuration")()

	raw, err := p.cache.Get(ctx, p.config.CacheKey)
	switch {
	case err == nil:
		snapshot, decodeErr := DecodeSnapshot(raw)
		if decodeErr == nil {
			p.metrics.recordLookup(outcomeCacheHit)
			logging.AddData(ctx, "rateSource", outcomeCacheHit)
			return snapshot
		}
		p.metrics.recordCacheError("decode")
		p.log.WithError(decodeErr).Warn("Provider.Rates.CorruptCacheEntry")
	case errors.Is(err, ErrCacheMiss):
	default:
		p.metrics.recordCacheError("get")
		p.log.WithError(err).Warn("Provider.Rates.CacheReadFailed")
	}

	result, err, _ := p.group.Do(p.config.CacheKey, func() (interface{}, error) {
		return p.refresh(ctx)
	})
	if err != nil {
		p.metrics.recordLookup(outcomeFallback)
		logging.AddData(ctx, "rateSource", outcomeFallback)
		p.log.WithError(err).Warn("Provider.Rates.UsingFallback")
		return Fallback()
	}

	p.metrics.recordLookup(outcomeFetched)
	logging.AddData(ctx, "rateSource", outcomeFetched)
	return result.(Snapshot)
}

// refresh ignores the caller's cancellation: its result is shared by every caller waiting
// on the same key.
func (p *Provider) refresh(ctx context.Context) (Snapshot, error) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.FetchTimeout)
	defer cancel()

	started := time.Now()
	snapshot, err := p.source.Fetch(fetchCtx)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		p.metrics.recordFetch(time.Since(started))
	}
	if err != nil {
		return nil, err
	}

	encoded, err := snapshot.Encode()
	if err == nil {
		err = p.cache.Set(fetchCtx, p.config.CacheKey, encoded, p.config.CacheTTL)
	}
	if err != nil {
		p.metrics.recordCacheError("set")
		p.log.WithError(err).Warn("Provider.Refresh.CacheWriteFailed")
	}
	return snapshot, nil
}
