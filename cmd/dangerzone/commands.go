package main

import (
	"log/slog"

	"danger-zone/internal/config"
	"danger-zone/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type flags struct {
	restPort       int
	graphqlPort    int
	isolatedStores bool
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:          "dangerzone",
		Short:        "Hazard registry with REST and GraphQL APIs",
		SilenceUsage: true,
	}
	bindFlags(root, &f)

	root.AddCommand(
		serveCmd(&f, "serve", "Start both the REST and GraphQL APIs", surfaceSet{rest: true, graphql: true}),
		serveCmd(&f, "rest", "Start only the REST API", surfaceSet{rest: true}),
		serveCmd(&f, "graphql", "Start only the GraphQL API", surfaceSet{graphql: true}),
	)
	return root
}

func bindFlags(cmd *cobra.Command, f *flags) {
	pf := cmd.PersistentFlags()
	pf.IntVar(&f.restPort, "rest-port", config.DefaultRESTPort, "REST listen port (overrides REST_PORT)")
	pf.IntVar(&f.graphqlPort, "graphql-port", config.DefaultGraphQLPort, "GraphQL listen port (overrides GRAPHQL_PORT)")
	pf.BoolVar(&f.isolatedStores, "isolated-stores", false, "give each API its own record store and audit log")
}

func serveCmd(f *flags, use, short string, want surfaceSet) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				slog.Error("config load failed", "err", err)
				return err
			}

			log := logger.New(cfg.App.Env)
			slog.SetDefault(log)
			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			return run(cmd.Context(), cfg, log, want)
		},
	}
}

// loadConfig reads the environment, then applies any flags set on the command line.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	pf := cmd.Flags()
	if pf.Changed("rest-port") {
		cfg.REST.Port = f.restPort
	}
	if pf.Changed("graphql-port") {
		cfg.GraphQL.Port = f.graphqlPort
	}
	if pf.Changed("isolated-stores") && f.isolatedStores {
		cfg.Store.Mode = config.StoreIsolated
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
