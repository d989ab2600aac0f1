package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/httpresp"
	"github.com/BruksfildServices01/club-admin/internal/middleware"
	"github.com/BruksfildServices01/club-admin/internal/models"
)

type EventHandler struct {
	db *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{db: db}
}

// --------- Requests ---------

type CreateEventRequest struct {
	Title    string    `json:"title" binding:"required"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

type UpdateEventRequest struct {
	Title    *string    `json:"title,omitempty"`
	Location *string    `json:"location,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// --------- Handlers ---------

func (h *EventHandler) List(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	q := h.db.WithContext(c.Request.Context()).Where("club_id = ?", club.ID)
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("starts_at >= ?", t)
		}
	}

	var events []models.Event
	if err := q.Order("starts_at ASC").Find(&events).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, events)
}

func (h *EventHandler) Create(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		httperr.Respond(c, httperr.ErrBusiness("event_ends_before_start"))
		return
	}

	event := models.Event{
		ClubID:   club.ID,
		ChurchID: club.ChurchID,
		Title:    req.Title,
		Location: req.Location,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&event).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	httpresp.Created(c, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	event, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		httperr.Respond(c, httperr.ErrBusiness("event_ends_before_start"))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(event).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	httpresp.OK(c, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	event, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(event).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EventHandler) load(c *gin.Context) (*models.Event, bool) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	var event models.Event
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND club_id = ?", c.Param("event"), club.ID).
		First(&event).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return nil, false
	}

	middleware.BindRecord(c, "event", &event)
	return &event, true
}
