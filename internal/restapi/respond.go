package restapi

import (
	"errors"
	"net/http"
	"time"

	"danger-zone/internal/apperr"
	"danger-zone/internal/clearance"
	"danger-zone/internal/hazard"
	"danger-zone/pkg/errutil"
	"danger-zone/pkg/logger"

	"github.com/gin-gonic/gin"
)

// envelope is the success body shared by every route.
type envelope struct {
	StatusCode      int    `json:"statusCode"`
	Timestamp       string `json:"timestamp"`
	Message         string `json:"message,omitempty"`
	TotalCount      *int   `json:"totalCount,omitempty"`
	SecurityLevel   int    `json:"securityLevel"`
	Data            any    `json:"data,omitempty"`
	RemovedDangerID string `json:"removedDangerID,omitempty"`
}

type errorBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp"`
	Field         string `json:"field,omitempty"`
	RequiredLevel *int   `json:"requiredLevel,omitempty"`
	ProvidedLevel *int   `json:"providedLevel,omitempty"`

	ValidLevels     []hazard.RiskLevel `json:"validLevels,omitempty"`
	ValidCategories []hazard.Category  `json:"validCategories,omitempty"`
	ValidStatuses   []hazard.Status    `json:"validStatuses,omitempty"`
}

func respond(c *gin.Context, status int, body envelope) {
	body.StatusCode = status
	body.Timestamp = apperr.Timestamp(time.Now())
	body.SecurityLevel = int(clearance.FromContext(c.Request.Context()))
	c.JSON(status, body)
}

// respondError maps a registry error onto its HTTP status and body.
// System failures are logged with their cause and reported generically.
func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	body := errorBody{
		Code:      e.Kind.Code(),
		Message:   e.Message,
		Timestamp: apperr.Timestamp(time.Now()),
	}

	switch e.Kind {
	case apperr.KindInsufficientClearance:
		req, prov := e.Required, e.Provided
		body.RequiredLevel, body.ProvidedLevel = &req, &prov
	case apperr.KindValidationFailed:
		body.Field = e.Field
		switch e.Field {
		case "riskLevel":
			body.ValidLevels = hazard.RiskLevels
		case "category":
			body.ValidCategories = hazard.Categories
		case "status":
			body.ValidStatuses = hazard.Statuses
		}
	case apperr.KindSystemFailure:
		cause := errors.Unwrap(e)
		if cause == nil {
			cause = e
		}
		errutil.LogError(logger.FromGin(c), "request failed", cause)
		_ = c.Error(cause)
	}

	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), body)
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorBody{
		Code:      apperr.CodeNotFound,
		Message:   "navigation error: route does not exist or is not authorized",
		Timestamp: apperr.Timestamp(time.Now()),
	})
}
