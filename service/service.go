package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-proptest/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

// Service bundles the HTTP surfaces that run alongside the test service:
// the liveness probe and the prometheus scrape endpoint.
type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
}

func New(version string) *Service {
	return &Service{
		Healthz: &HealthzServer{version: version},
		Metrics: &MetricsServer{},
	}
}

func (s *Service) Start(ctx context.Context) {
	go serve(ctx, "healthz", net.JoinHostPort(HealthzHost, HealthzPort), s.Healthz.Start)
	go serve(ctx, "metrics", net.JoinHostPort(MetricsHost, MetricsPort), s.Metrics.Start)
}

func serve(ctx context.Context, name, addr string, start func(context.Context, string) error) {
	log.Info("starting server", "server", name, "addr", addr)
	if err := start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "server", name, "err", err)
		metrics.RecordErrorDetails("error starting "+name+" server", err)
	}
}

func (s *Service) Shutdown() {
	if err := s.Healthz.Shutdown(); err != nil {
		log.Warn("healthz shutdown failed", "err", err)
	}
	if err := s.Metrics.Shutdown(); err != nil {
		log.Warn("metrics shutdown failed", "err", err)
	}
	log.Info("servers stopped")
}
