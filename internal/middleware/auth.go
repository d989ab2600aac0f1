package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/config"
	"github.com/BruksfildServices01/club-admin/internal/session"
)

const (
	ContextUserID      = "userID"
	ContextClubID      = "clubID"
	ContextUserRole    = "userRole"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"
)

func AuthMiddleware(cfg *config.Config, revoker session.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		clubID, ok2 := claims["clubId"].(float64)
		role, _ := claims["role"].(string)
		tokenID, _ := claims["jti"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		if tokenID != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), tokenID)
			if err != nil {
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session_store_unavailable"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token_revoked"})
				return
			}
		}

		var expiry time.Time
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			expiry = exp.Time
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextClubID, uint(clubID))
		c.Set(ContextUserRole, role)
		c.Set(ContextTokenID, tokenID)
		c.Set(ContextTokenExpiry, expiry)

		c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), uint(userID)))

		c.Next()
	}
}
