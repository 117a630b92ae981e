package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmate/recruiter-service/internal/access"
)

const (
	headerUserID       = "x-user-id"
	headerCapabilities = "x-user-capabilities"
)

// CallerFromHeaders stores the Gateway-forwarded caller in the request
// context. Requests without x-user-id carry no caller.
func CallerFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(headerUserID); id != "" {
			caller := access.Caller{
				UserID:       id,
				Capabilities: access.ParseCapabilities(c.GetHeader(headerCapabilities)),
			}
			c.Request = c.Request.WithContext(access.WithCaller(c.Request.Context(), caller))
		}
		c.Next()
	}
}

// NewRouter mounts every route on a new gin engine.
func NewRouter(h *Handler, version string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "recruiter-service",
			"version": version,
		})
	})

	api := r.Group("", CallerFromHeaders())
	api.GET("/dashboard", h.Dashboard)
	api.POST("/action-items/:id/dismiss", h.DismissActionItem)

	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.POST("/:id/open", h.OpenJob)
		jobs.POST("/:id/status", h.SetStatus)
		jobs.GET("/:id/actions", h.JobActions)
		jobs.POST("/:id/actions", h.ApplyAction)
	}

	api.POST("/corrections", h.RecordCorrection)
	api.GET("/corrections/stats", h.CorrectionStats)
	api.GET("/subscriptions/monthly-total", h.MonthlyTotal)

	return r
}
