package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		App:     AppConfig{Env: "local"},
		REST:    RESTConfig{Port: 3000},
		GraphQL: GraphQLConfig{Port: 4000, MaxDepth: 10},
		Store:   StoreConfig{Mode: StoreShared},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"APP_ENV", "REST_PORT", "GRAPHQL_PORT", "STORE_MODE", "CORS_ALLOWED_ORIGINS"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err.Error())
		}
	}
}

func TestValidate_PortsMustDiffer(t *testing.T) {
	c := validConfig()
	c.GraphQL.Port = c.REST.Port
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for shared port")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "REST_PORT", "GRAPHQL_PORT", "GRAPHQL_MAX_DEPTH", "STORE_MODE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.RESTAddr() != ":3000" || c.GraphQLAddr() != ":4000" {
		t.Fatalf("unexpected addrs %s %s", c.RESTAddr(), c.GraphQLAddr())
	}
	if c.Store.Mode != StoreShared {
		t.Fatalf("expected shared store, got %q", c.Store.Mode)
	}
}

func TestLoad_RejectsNonNumericPort(t *testing.T) {
	t.Setenv("REST_PORT", "http")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_SplitsOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.CORS.AllowedOrigins) != 2 || c.CORS.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", c.CORS.AllowedOrigins)
	}
}
