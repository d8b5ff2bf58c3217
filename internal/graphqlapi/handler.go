// Package graphqlapi serves the hazard registry over GraphQL.
package graphqlapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"danger-zone/internal/apperr"
	"danger-zone/internal/clearance"
	"danger-zone/internal/hazard"
	"danger-zone/pkg/errutil"
	"danger-zone/pkg/logger"

	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/samber/oops"
)

// Handler executes GraphQL requests against the hazard service.
type Handler struct {
	schema *graphql.Schema
}

// NewHandler parses the schema and returns a handler that reads the
// "Authorization: SecurityLevel <n>" header once per request.
func NewHandler(svc *hazard.Service, maxDepth int) http.Handler {
	opts := []graphql.SchemaOpt{
		graphql.Logger(panics{}),
		graphql.PanicHandler(panics{}),
	}
	if maxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(maxDepth))
	}
	h := &Handler{
		schema: graphql.MustParseSchema(schema, &Resolver{hazards: svc}, opts...),
	}
	return clearance.FromAuthorization(h)
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrors(w, http.StatusBadRequest, apperr.ValidationFailed("body", "request body must be a GraphQL JSON document"))
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				writeErrors(w, http.StatusBadRequest, apperr.ValidationFailed("variables", "variables must be a JSON object"))
				return
			}
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeErrors(w, http.StatusMethodNotAllowed, apperr.ValidationFailed("method", "use GET or POST"))
		return
	}

	ctx := r.Context()
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	for _, qe := range resp.Errors {
		classify(qe)
		if appErr := apperr.From(qe.ResolverError); appErr != nil && appErr.Kind == apperr.KindSystemFailure {
			cause := errors.Unwrap(appErr)
			if cause == nil {
				cause = appErr
			}
			errutil.LogError(logger.From(ctx), "graphql resolver failed", cause)
		}
	}
	resp.Extensions = map[string]any{
		"timestamp":     apperr.Timestamp(time.Now()),
		"securityLevel": int(clearance.FromContext(ctx)),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// classify gives every error an extensions code. Resolver errors already carry one;
// unknown fields are reported as not found and other document errors as validation failures.
func classify(qe *gqlerrors.QueryError) {
	if qe.Extensions != nil {
		if _, ok := qe.Extensions["code"]; ok {
			return
		}
	} else {
		qe.Extensions = map[string]any{}
	}
	code := apperr.CodeValidationFailed
	switch {
	case qe.ResolverError != nil:
		code = apperr.KindOf(qe.ResolverError).Code()
	case qe.Rule == "FieldsOnCorrectType":
		code = apperr.CodeNotFound
	}
	qe.Extensions["code"] = code
	qe.Extensions["timestamp"] = apperr.Timestamp(time.Now())
}

// panics logs a resolver panic server-side and reports it as a generic system failure.
type panics struct{}

func (panics) LogPanic(ctx context.Context, value any) {
	errutil.LogError(logger.From(ctx), "graphql resolver panicked", oops.Code("PANIC").Errorf("panic: %v", value))
}

func (panics) MakePanicError(_ context.Context, _ any) *gqlerrors.QueryError {
	e := apperr.SystemFailure(nil)
	return &gqlerrors.QueryError{Message: e.Error(), Extensions: e.Extensions()}
}

func writeErrors(w http.ResponseWriter, status int, e *apperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{"message": e.Error(), "extensions": e.Extensions()}},
	})
}

// NotFound answers paths other than the GraphQL endpoint.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeErrors(w, http.StatusNotFound, &apperr.Error{
		Kind:    apperr.KindNotFound,
		Message: "navigation error: route does not exist or is not authorized",
	})
}
