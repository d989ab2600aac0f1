package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/models"
)

const ContextClub = "club"

// ClubScope loads the :club route parameter and refuses access to clubs
// other than the one in the caller's token.
func ClubScope(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("club"), 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_club_id", "Clube inválido.")
			c.Abort()
			return
		}

		if c.GetUint(ContextClubID) != uint(id) {
			httperr.Respond(c, httperr.ErrForbidden)
			c.Abort()
			return
		}

		var club models.Club
		if err := db.WithContext(c.Request.Context()).First(&club, id).Error; err != nil {
			httperr.Respond(c, httperr.FromDB(err))
			c.Abort()
			return
		}

		BindRecord(c, "club", &club)
		c.Set(ContextClub, &club)
		c.Next()
	}
}
