package main

import (
	"log/slog"
	"net/http"

	"danger-zone/internal/config"
	"danger-zone/internal/graphqlapi"
	"danger-zone/internal/hazard"
	"danger-zone/internal/metrics"
	"danger-zone/internal/restapi"
	"danger-zone/pkg/logger"

	"github.com/gin-gonic/gin"
)

// restRouter wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal/hazard.
func restRouter(log *slog.Logger, m *metrics.Metrics, svc *hazard.Service) *gin.Engine {
	r := gin.New()
	r.Use(logger.Middleware(log))
	r.Use(gin.CustomRecovery(restapi.Recovery))
	r.Use(m.Gin("rest"))

	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	restapi.Handlers{Hazards: svc}.Register(r)
	r.NoRoute(restapi.NotFound)
	return r
}

// graphqlRouter serves the GraphQL endpoint at "/" and "/graphql".
func graphqlRouter(cfg config.Config, log *slog.Logger, m *metrics.Metrics, svc *hazard.Service) http.Handler {
	gql := graphqlapi.NewHandler(svc, cfg.GraphQL.MaxDepth)

	mux := http.NewServeMux()
	mux.Handle("/graphql", gql)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			gql.ServeHTTP(w, r)
			return
		}
		graphqlapi.NotFound(w, r)
	})

	return logger.HTTPMiddleware(log, "graphql", m.HTTP("graphql", mux))
}
