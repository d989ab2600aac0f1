package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/httpresp"
	"github.com/BruksfildServices01/club-admin/internal/middleware"
	"github.com/BruksfildServices01/club-admin/internal/models"
)

type ClubHandler struct {
	db *gorm.DB
}

func NewClubHandler(db *gorm.DB) *ClubHandler {
	return &ClubHandler{db: db}
}

type UpdateClubRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	ChurchID *uint   `json:"church_id,omitempty"`
}

func (h *ClubHandler) Get(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)
	httpresp.OK(c, club)
}

func (h *ClubHandler) Update(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	var req UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		club.Name = *req.Name
	}
	if req.Phone != nil {
		club.Phone = *req.Phone
	}
	if req.ChurchID != nil {
		club.ChurchID = req.ChurchID
	}

	if err := h.db.WithContext(c.Request.Context()).Save(club).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	httpresp.OK(c, club)
}

func (h *ClubHandler) Delete(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	if err := h.db.WithContext(c.Request.Context()).Delete(club).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
