package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taggate/taggate/internal/access"
	"github.com/taggate/taggate/pkg/logger"
)

// LogRequest is the body of POST /log as submitted by a reader.
type LogRequest struct {
	Tag       string `json:"tag"`
	Timestamp string `json:"timestamp"` // optional RFC3339 instant
}

// AccessHandler exposes the access-check write path and the log read paths.
type AccessHandler struct {
	svc *access.Service
}

func NewAccessHandler(svc *access.Service) *AccessHandler {
	return &AccessHandler{svc: svc}
}

// Register routes on the engine root (reader firmware expects flat paths)
func (h *AccessHandler) Register(r *gin.Engine) {
	r.POST("/log", h.RecordAccess)
	r.GET("/search", h.Search)
	r.GET("/events", h.Events)
}

// RecordAccess handles a scan submission: 200 when the tag resolves to a
// registered user, 403 when it does not. Both outcomes persist a log and
// notify subscribers; only the stored record is ever returned or broadcast.
func (h *AccessHandler) RecordAccess(c *gin.Context) {
	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	log, err := h.svc.RecordAccess(c.Request.Context(), req.Tag, req.Timestamp)
	if err != nil {
		if errors.Is(err, access.ErrMissingTag) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tag"})
			return
		}
		logger.Errorf("access check failed for tag %q: %v", req.Tag, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if log.Granted() {
		c.JSON(http.StatusOK, gin.H{"message": "Access granted", "log": log})
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"message": "Access denied", "log": log})
}

// Search returns the logs recorded on ?date=YYYY-MM-DD. A day with no logs
// is a 200 with an empty array, not an error.
func (h *AccessHandler) Search(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing date"})
		return
	}

	logs, err := h.svc.FindByDate(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, access.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		logger.Errorf("log search failed for date %q: %v", date, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Events returns every stored access log (dashboard bootstrap).
func (h *AccessHandler) Events(c *gin.Context) {
	logs, err := h.svc.AllLogs(c.Request.Context())
	if err != nil {
		logger.Errorf("events listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
