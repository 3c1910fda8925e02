package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/finflow/finflow-server/api"
	"github.com/finflow/finflow-server/internal/config"
	"github.com/finflow/finflow-server/internal/logging"
	"github.com/finflow/finflow-server/internal/operator"
	"github.com/finflow/finflow-server/internal/rates"
	"github.com/finflow/finflow-server/internal/service"
	"github.com/finflow/finflow-server/internal/storage"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("finflow-server starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics := rates.NewMetrics("finflow")
	if err := metrics.Register(registry); err != nil {
		logger.WithError(err).Fatal("rates.Metrics.Register")
		return
	}

	rateCache, closeCache := newRateCache(envConfig, logger)
	defer closeCache()

	rateProvider := rates.NewProvider(
		rateCache,
		rates.NewBankSource(envConfig.RateSourceURL, envConfig.RateFetchTimeout, logger, metrics),
		rates.ProviderConfig{
			CacheKey:     envConfig.RateCacheKey,
			CacheTTL:     envConfig.RateCacheTTL,
			FetchTimeout: envConfig.RateFetchTimeout,
		},
		logger,
		metrics,
	)

	op := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers)
	op.Start()
	defer op.Stop()

	svc := service.NewService(dbStorage, op, rateProvider)

	httpRest := api.Rest{
		Logger:   logger,
		Port:     envConfig.HTTPPort,
		Service:  svc,
		Storage:  dbStorage,
		Registry: registry,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("api.Rest.Serve")
	}
}

// newRateCache picks redis when an address is configured. A redis that cannot be reached at
// startup degrades to the in-process cache.
func newRateCache(env *config.Config, logger *logrus.Logger) (rates.Cache, func()) {
	if env.RedisAddress == "" {
		return rates.NewMemoryCache(), func() {}
	}

	redisCache, err := rates.NewRedisCache(rates.RedisCacheConfig{
		Addr:     env.RedisAddress,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
	if err != nil {
		logger.WithError(err).Warn("rates.NewRedisCache, using in-process cache")
		return rates.NewMemoryCache(), func() {}
	}
	return redisCache, redisCache.Close
}
