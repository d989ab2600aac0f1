package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/httpresp"
	"github.com/BruksfildServices01/club-admin/internal/middleware"
	"github.com/BruksfildServices01/club-admin/internal/models"
)

type MemberHandler struct {
	db *gorm.DB
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{db: db}
}

// --------- Requests ---------

type CreateMemberRequest struct {
	Name      string     `json:"name" binding:"required"`
	Email     string     `json:"email" binding:"omitempty,email"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
	Notes     string     `json:"notes"`
}

type UpdateMemberRequest struct {
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string    `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// --------- Handlers ---------

func (h *MemberHandler) List(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("club_id = ?", club.ID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var members []models.Member
	if err := q.Order("name ASC").Find(&members).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, members)
}

func (h *MemberHandler) Create(c *gin.Context) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	member := models.Member{
		ClubID:    club.ID,
		ChurchID:  club.ChurchID,
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&member).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	httpresp.Created(c, member)
}

func (h *MemberHandler) Update(c *gin.Context) {
	member, ok := h.load(c, false)
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Email != nil {
		member.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		member.BirthDate = req.BirthDate
	}
	if req.Notes != nil {
		member.Notes = *req.Notes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(member).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	httpresp.OK(c, member)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	member, ok := h.load(c, false)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(member).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) Restore(c *gin.Context) {
	member, ok := h.load(c, true)
	if !ok {
		return
	}
	if !member.DeletedAt.Valid {
		httperr.Respond(c, httperr.ErrBusiness("member_not_deleted"))
		return
	}

	member.DeletedAt = gorm.DeletedAt{}
	if err := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Model(member).
		Select("deleted_at").
		Updates(member).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, member)
}

func (h *MemberHandler) Purge(c *gin.Context) {
	member, ok := h.load(c, true)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Unscoped().Delete(member).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// load fetches the :member of the scoped club; withTrashed includes
// soft-deleted members.
func (h *MemberHandler) load(c *gin.Context, withTrashed bool) (*models.Member, bool) {
	club := c.MustGet(middleware.ContextClub).(*models.Club)

	q := h.db.WithContext(c.Request.Context())
	if withTrashed {
		q = q.Unscoped()
	}

	var member models.Member
	if err := q.Where("id = ? AND club_id = ?", c.Param("member"), club.ID).
		First(&member).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return nil, false
	}

	middleware.BindRecord(c, "member", &member)
	return &member, true
}
