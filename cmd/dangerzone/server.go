package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"danger-zone/internal/audit"
	"danger-zone/internal/config"
	"danger-zone/internal/hazard"
	"danger-zone/internal/metrics"

	"github.com/rs/cors"
)

type surfaceSet struct {
	rest    bool
	graphql bool
}

// namedServer is one API surface bound to its own port.
type namedServer struct {
	name string
	srv  *http.Server
}

const shutdownTimeout = 20 * time.Second

func run(ctx context.Context, cfg config.Config, log *slog.Logger, want surfaceSet) error {
	servers := buildServers(cfg, log, metrics.New(), want)
	listeners, err := listen(servers)
	if err != nil {
		return err
	}
	return serve(ctx, log, servers, listeners)
}

func newHazardService(log *slog.Logger, m *metrics.Metrics) *hazard.Service {
	return hazard.NewService(
		hazard.NewMemoryRepo(),
		audit.NewService(audit.NewMemoryRepo(), log),
		hazard.WithLogger(log),
		hazard.WithDecisionObserver(func(op hazard.Operation, allowed bool) {
			m.ObserveDecision(string(op), allowed)
		}),
	)
}

// buildServers wires the requested surfaces. In shared mode both run over one registry.
func buildServers(cfg config.Config, log *slog.Logger, m *metrics.Metrics, want surfaceSet) []namedServer {
	shared := newHazardService(log, m)
	serviceFor := func() *hazard.Service {
		if cfg.Store.Mode == config.StoreIsolated {
			return newHazardService(log, m)
		}
		return shared
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Security-Clearance", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	var out []namedServer
	if want.rest {
		out = append(out, namedServer{name: "rest", srv: newHTTPServer(cfg.RESTAddr(), c.Handler(restRouter(log, m, serviceFor())))})
	}
	if want.graphql {
		out = append(out, namedServer{name: "graphql", srv: newHTTPServer(cfg.GraphQLAddr(), c.Handler(graphqlRouter(cfg, log, m, serviceFor())))})
	}
	return out
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// listen binds every server before any starts, so a port conflict fails the whole process.
func listen(servers []namedServer) ([]net.Listener, error) {
	out := make([]net.Listener, 0, len(servers))
	for _, s := range servers {
		ln, err := net.Listen("tcp", s.srv.Addr)
		if err != nil {
			for _, open := range out {
				_ = open.Close()
			}
			return nil, fmt.Errorf("%s: listen on %s: %w", s.name, s.srv.Addr, err)
		}
		out = append(out, ln)
	}
	return out, nil
}

// serve runs each server until ctx is cancelled or one of them fails, then shuts all down.
func serve(ctx context.Context, log *slog.Logger, servers []namedServer, listeners []net.Listener) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, s := range servers {
		s := s
		ln := listeners[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info(s.name+" api listening", "addr", ln.Addr().String())
			if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server failed", "api", s.name, "err", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", s.name, err)
				}
				mu.Unlock()
				stop()
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown failed", "api", s.name, "err", err)
		}
	}
	wg.Wait()
	return firstErr
}
