package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/config"
	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/middleware"
	"github.com/BruksfildServices01/club-admin/internal/models"
	"github.com/BruksfildServices01/club-admin/internal/session"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	events  *audit.AuthEvents
	revoker session.Revoker
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, events *audit.AuthEvents, revoker session.Revoker) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, events: events, revoker: revoker}
}

// --------- Requests ---------

type RegisterRequest struct {
	ClubName  string `json:"club_name" binding:"required"`
	ClubSlug  string `json:"club_slug" binding:"required"`
	ClubPhone string `json:"club_phone"`
	ChurchID  *uint  `json:"church_id"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.ClubSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := h.db.WithContext(c.Request.Context())

	var count int64
	db.Model(&models.Club{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	club := models.Club{
		ChurchID: req.ChurchID,
		Name:     req.ClubName,
		Slug:     slug,
		Phone:    req.ClubPhone,
	}
	user := models.User{
		ChurchID: req.ChurchID,
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		Phone:    req.Phone,
		Role:     "owner",
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&club).Error; err != nil {
			return err
		}
		user.ClubID = &club.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userPayload(&user),
		"club":  club,
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	failed := func() {
		h.events.LoginFailed(ctx, audit.FailedLogin{
			Guard:          h.config.AuthGuard,
			Identifier:     email,
			CredentialKeys: audit.CredentialKeys(raw),
		})
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
	}

	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failed()
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		failed()
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.LoginSucceeded(ctx, h.config.AuthGuard, identityOf(&user))

	c.JSON(http.StatusOK, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	ctx := c.Request.Context()

	if tokenID := c.GetString(middleware.ContextTokenID); tokenID != "" {
		expiry, _ := c.Get(middleware.ContextTokenExpiry)
		until, _ := expiry.(time.Time)
		if err := h.revoker.Revoke(ctx, tokenID, until); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		httperr.Respond(c, httperr.FromDB(err))
		return
	}

	h.events.LoggedOut(ctx, h.config.AuthGuard, identityOf(&user))

	c.Status(http.StatusNoContent)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	var clubID uint
	if user.ClubID != nil {
		clubID = *user.ClubID
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.ID,
		"clubId": clubID,
		"role":   user.Role,
		"jti":    uuid.NewString(),
		"exp":    now.Add(tokenTTL).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func identityOf(user *models.User) audit.Identity {
	return audit.Identity{ID: user.ID, Email: user.Email, Type: "User"}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
		"club_id": user.ClubID,
	}
}
