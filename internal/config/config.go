package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration required by the registry process.
// Values come from env; command-line flags may override them before Validate.
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	REST    RESTConfig
	GraphQL GraphQLConfig
	Store   StoreConfig
	CORS    CORSConfig
}

type AppConfig struct {
	Env string
}

type RESTConfig struct {
	Port int
}

type GraphQLConfig struct {
	Port int
	// MaxDepth bounds query nesting.
	MaxDepth int
}

type StoreMode string

const (
	// StoreShared runs both API surfaces over one record store and one audit log.
	StoreShared StoreMode = "shared"
	// StoreIsolated gives each API surface its own store and audit log.
	StoreIsolated StoreMode = "isolated"
)

type StoreConfig struct {
	Mode StoreMode
}

type CORSConfig struct {
	AllowedOrigins []string
}

const (
	DefaultRESTPort        = 3000
	DefaultGraphQLPort     = 4000
	DefaultGraphQLMaxDepth = 10
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = envOr("APP_ENV", "local")

	{
		n, err := intOr("REST_PORT", DefaultRESTPort)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.REST.Port = n
	}
	{
		n, err := intOr("GRAPHQL_PORT", DefaultGraphQLPort)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.GraphQL.Port = n
	}
	{
		n, err := intOr("GRAPHQL_MAX_DEPTH", DefaultGraphQLMaxDepth)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.GraphQL.MaxDepth = n
	}

	c.Store.Mode = StoreMode(envOr("STORE_MODE", string(StoreShared)))
	c.CORS.AllowedOrigins = splitList(envOr("CORS_ALLOWED_ORIGINS", "*"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if !validPort(c.REST.Port) {
		errs = append(errs, fmt.Errorf("REST_PORT must be a valid port, got %d", c.REST.Port))
	}
	if !validPort(c.GraphQL.Port) {
		errs = append(errs, fmt.Errorf("GRAPHQL_PORT must be a valid port, got %d", c.GraphQL.Port))
	}
	if c.REST.Port == c.GraphQL.Port && validPort(c.REST.Port) {
		errs = append(errs, fmt.Errorf("REST_PORT and GRAPHQL_PORT must differ, both are %d", c.REST.Port))
	}
	if c.GraphQL.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("GRAPHQL_MAX_DEPTH must be positive, got %d", c.GraphQL.MaxDepth))
	}
	switch c.Store.Mode {
	case StoreShared, StoreIsolated:
	default:
		errs = append(errs, fmt.Errorf("STORE_MODE must be one of shared, isolated, got %q", c.Store.Mode))
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin"))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) RESTAddr() string {
	return fmt.Sprintf(":%d", c.REST.Port)
}

func (c Config) GraphQLAddr() string {
	return fmt.Sprintf(":%d", c.GraphQL.Port)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validPort(p int) bool { return p > 0 && p <= 65535 }

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
