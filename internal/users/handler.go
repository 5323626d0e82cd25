package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", middleware.RequireLogin(), h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// token is valid but the profile was never persisted
			respond.JSON(c, http.StatusOK, gin.H{
				"id":         userID,
				"email":      middleware.UserEmailFromContext(c),
				"fullName":   middleware.UserNameFromContext(c),
				"pictureUrl": middleware.UserPictureFromContext(c),
				"role":       RoleFarmer,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"fullName":   user.FullName,
		"pictureUrl": user.PictureURL,
		"role":       user.Role,
	})
}
