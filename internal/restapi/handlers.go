package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"danger-zone/internal/apperr"
	"danger-zone/internal/clearance"
	"danger-zone/internal/hazard"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

// Handlers groups REST handlers for dependency injection.
// Keep these thin: parse input, call the hazard service, render the envelope.
type Handlers struct {
	Hazards *hazard.Service
}

// Register mounts the hazard routes. Every route reads the Security-Clearance header.
func (h Handlers) Register(r gin.IRouter) {
	g := r.Group("/")
	g.Use(clearance.FromHeader())
	{
		g.GET("/dangers", h.ListDangers)
		g.POST("/dangers", h.CreateDanger)
		g.GET("/dangers/:id", h.GetDanger)
		g.DELETE("/dangers/:id", h.DeleteDanger)
		g.PATCH("/dangers/:id/status", h.UpdateStatus)
		g.POST("/dangers/:id/inspection", h.RecordInspection)
		g.GET("/stats", h.Stats)
		g.GET("/security-logs", h.SecurityLogs)
	}
}

type createRequest struct {
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	RiskLevel             string   `json:"riskLevel"`
	Category              string   `json:"category"`
	Location              string   `json:"location"`
	ConsequenceRating     *int     `json:"consequenceRating"`
	ProtectiveEquipment   []string `json:"protectiveEquipment"`
	ContainmentProcedures []string `json:"containmentProcedures"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) ListDangers(c *gin.Context) {
	f := hazard.Filter{
		RiskLevel: hazard.RiskLevel(c.Query("riskLevel")),
		Category:  hazard.Category(c.Query("category")),
	}
	// A non-numeric minRating is ignored rather than rejected.
	if raw := strings.TrimSpace(c.Query("minRating")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.MinRating = &n
		}
	}

	out, err := h.Hazards.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	total := len(out)
	respond(c, http.StatusOK, envelope{TotalCount: &total, Data: out})
}

func (h Handlers) GetDanger(c *gin.Context) {
	r, err := h.Hazards.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, envelope{Data: r})
}

func (h Handlers) CreateDanger(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.ValidationFailed("body", "invalid data: request body must be a JSON hazard object"))
		return
	}

	r, err := h.Hazards.Create(c.Request.Context(), hazard.Draft{
		Title:                 req.Title,
		Description:           req.Description,
		RiskLevel:             hazard.RiskLevel(req.RiskLevel),
		Category:              hazard.Category(req.Category),
		Location:              req.Location,
		ConsequenceRating:     req.ConsequenceRating,
		ProtectiveEquipment:   req.ProtectiveEquipment,
		ContainmentProcedures: req.ContainmentProcedures,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, envelope{Message: hazard.AlertMessage(r.RiskLevel), Data: r})
}

func (h Handlers) DeleteDanger(c *gin.Context) {
	removed, err := h.Hazards.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, envelope{
		Message:         "hazard record removed - update safety protocols",
		RemovedDangerID: removed.ID,
	})
}

func (h Handlers) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.ValidationFailed("status", "invalid data: body must be {\"status\": ...}"))
		return
	}
	r, err := h.Hazards.UpdateStatus(c.Request.Context(), c.Param("id"), hazard.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, envelope{Message: fmt.Sprintf("status updated to %s", r.Status), Data: r})
}

func (h Handlers) RecordInspection(c *gin.Context) {
	r, err := h.Hazards.RecordInspection(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, envelope{Message: "inspection recorded", Data: r})
}

func (h Handlers) Stats(c *gin.Context) {
	st, err := h.Hazards.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, envelope{Data: st})
}

func (h Handlers) SecurityLogs(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, apperr.ValidationFailed("limit", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	entries, err := h.Hazards.SecurityLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	total := len(entries)
	respond(c, http.StatusOK, envelope{TotalCount: &total, Data: entries})
}

// Recovery turns a handler panic into a SYSTEM_FAILURE response.
func Recovery(c *gin.Context, recovered any) {
	respondError(c, apperr.SystemFailure(oops.Code("PANIC").With("path", c.Request.URL.Path).Errorf("panic: %v", recovered)))
}
