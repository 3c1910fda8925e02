package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/finflow/finflow-server/internal/handlers/v1/status"
	"github.com/finflow/finflow-server/internal/handlers/v1/transaction"
	"github.com/finflow/finflow-server/internal/logging"
	"github.com/finflow/finflow-server/internal/service"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Storage  pinger
	Registry *prometheus.Registry
}

// Handler builds the huma API and the metrics endpoint on one mux.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("finflow-server", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	status.NewHandler(r.Storage).Register(api)

	svc := r.Service.Transaction
	transaction.NewTotalsHandler(svc).Register(api)
	transaction.NewListTransactionsHandler(svc).Register(api)
	transaction.NewCreateTransactionHandler(svc).Register(api)
	transaction.NewGetTransactionHandler(svc).Register(api)
	transaction.NewUpdateTransactionHandler(svc).Register(api)
	transaction.NewDeleteTransactionHandler(svc).Register(api)

	mux.Handle("GET /metrics", promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{}))
	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
