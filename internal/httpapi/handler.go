// Package httpapi exposes the recruiter operations over HTTP for the Gateway.
//
// Every route except /health expects the x-user-id and x-user-capabilities
// headers forwarded by the Gateway.
//
// Routes:
//
//	GET  /dashboard                      → operations snapshot
//	GET  /jobs                           → recent job postings
//	POST /jobs/:id/open                  → record a detail view (NEW → VIEWED)
//	POST /jobs/:id/status                → set status directly
//	GET  /jobs/:id/actions               → actions offered for the job
//	POST /jobs/:id/actions               → perform a UI action
//	POST /corrections                    → record a human correction
//	GET  /corrections/stats              → correction statistics
//	GET  /subscriptions/monthly-total    → normalized monthly spend
//	POST /action-items/:id/dismiss       → hide an action item until tomorrow
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/dismissal"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/model"
)

// DashboardBuilder builds operations snapshots.
type DashboardBuilder interface {
	Build(ctx context.Context) (*model.DashboardSnapshot, error)
}

// Lifecycle changes job statuses.
type Lifecycle interface {
	ListJobs(ctx context.Context) ([]model.RecruiterJob, error)
	Open(ctx context.Context, jobID string) (*model.JobPosting, error)
	SetStatus(ctx context.Context, jobID, target string) error
	Actions(ctx context.Context, jobID string) ([]kanban.Transition, error)
	Apply(ctx context.Context, jobID string, action kanban.Action) (kanban.Status, error)
}

// Corrections records and summarizes human corrections.
type Corrections interface {
	RecordCorrection(ctx context.Context, c ledger.Correction) error
	Stats(ctx context.Context) (model.CorrectionStats, error)
}

// Spend reports normalized subscription spend.
type Spend interface {
	MonthlyTotal(ctx context.Context) (billing.Summary, error)
}

// Dismissals stores per-day action item dismissals.
type Dismissals interface {
	Dismiss(ctx context.Context, userID, itemID string) error
	Dismissed(ctx context.Context, userID string) (map[string]struct{}, error)
}

// Handler holds the services behind the routes.
type Handler struct {
	dashboard   DashboardBuilder
	lifecycle   Lifecycle
	corrections Corrections
	spend       Spend
	dismissals  Dismissals
	auth        access.Authorizer
	log         *zap.Logger
}

// Deps groups the Handler's collaborators.
type Deps struct {
	Dashboard   DashboardBuilder
	Lifecycle   Lifecycle
	Corrections Corrections
	Spend       Spend
	Dismissals  Dismissals
	Auth        access.Authorizer
	Log         *zap.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		dashboard:   d.Dashboard,
		lifecycle:   d.Lifecycle,
		corrections: d.Corrections,
		spend:       d.Spend,
		dismissals:  d.Dismissals,
		auth:        d.Auth,
		log:         log,
	}
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

// Dashboard handles GET /dashboard. Items the caller dismissed today are left
// out; if dismissals cannot be read the full list is returned.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	snap, err := h.dashboard.Build(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	if caller, ok := access.CallerFrom(ctx); ok && h.dismissals != nil {
		dismissed, err := h.dismissals.Dismissed(ctx, caller.UserID)
		if err != nil {
			h.log.Warn("load dismissals failed", zap.String("user_id", caller.UserID), zap.Error(err))
		} else {
			snap.ActionItems = dismissal.Filter(snap.ActionItems, dismissed)
		}
	}

	c.JSON(http.StatusOK, snap)
}

// DismissActionItem handles POST /action-items/:id/dismiss.
func (h *Handler) DismissActionItem(c *gin.Context) {
	ctx := c.Request.Context()

	caller, ok := access.CallerFrom(ctx)
	if !ok || !h.auth.Authorized(ctx) {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}
	if h.dismissals == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "dismissals are not configured"})
		return
	}
	if err := h.dismissals.Dismiss(ctx, caller.UserID, c.Param("id")); err != nil {
		h.fail(c, apperr.Storage(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

// ListJobs handles GET /jobs.
func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.lifecycle.ListJobs(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// OpenJob handles POST /jobs/:id/open.
func (h *Handler) OpenJob(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	job, err := h.lifecycle.Open(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus handles POST /jobs/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	if err := h.lifecycle.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// JobActions handles GET /jobs/:id/actions.
func (h *Handler) JobActions(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	actions, err := h.lifecycle.Actions(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

type applyActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// ApplyAction handles POST /jobs/:id/actions.
func (h *Handler) ApplyAction(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	var req applyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	status, err := h.lifecycle.Apply(c.Request.Context(), id, kanban.Action(req.Action))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

// ─── Corrections ─────────────────────────────────────────────────────────────

// RecordCorrection handles POST /corrections.
func (h *Handler) RecordCorrection(c *gin.Context) {
	var req ledger.Correction
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	if err := h.corrections.RecordCorrection(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CorrectionStats handles GET /corrections/stats.
func (h *Handler) CorrectionStats(c *gin.Context) {
	stats, err := h.corrections.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ─── Subscriptions ───────────────────────────────────────────────────────────

// MonthlyTotal handles GET /subscriptions/monthly-total.
func (h *Handler) MonthlyTotal(c *gin.Context) {
	sum, err := h.spend.MonthlyTotal(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// jobID returns the :id parameter or writes a 400 when it is not a UUID.
func (h *Handler) jobID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		h.fail(c, apperr.Validation("invalid job id %q", id))
		return "", false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
