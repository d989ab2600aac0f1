package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/middleware"
	"github.com/BruksfildServices01/club-admin/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	if userID == 0 {
		httperr.Respond(c, httperr.ErrUnauthenticated)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	payload := userPayload(&user)
	payload["role"] = user.Role
	payload["church_id"] = user.ChurchID

	c.JSON(http.StatusOK, gin.H{"user": payload})
}
