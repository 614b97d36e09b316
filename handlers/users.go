package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taggate/taggate/internal/users"
	"github.com/taggate/taggate/pkg/logger"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Tag    string `json:"tag"`
	Name   string `json:"name"`
	Matric string `json:"matric"`
}

// UserHandler exposes badge-holder registration.
type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(r *gin.Engine) {
	r.POST("/register", h.RegisterUser)
}

func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.svc.Register(c.Request.Context(), req.Tag, req.Name, req.Matric)
	if err != nil {
		if errors.Is(err, users.ErrMissingTag) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tag"})
			return
		}
		if errors.Is(err, users.ErrDuplicateTag) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tag already registered"})
			return
		}
		logger.Errorf("user registration failed for tag %q: %v", req.Tag, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered", "user": u})
}
