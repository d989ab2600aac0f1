package audit

import (
	"context"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

type Action string

const (
	ActionCreated      Action = "created"
	ActionUpdated      Action = "updated"
	ActionDeleted      Action = "deleted"
	ActionRestored     Action = "restored"
	ActionForceDeleted Action = "force_deleted"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
	ActionFailedLogin  Action = "failed_login"
	ActionException    Action = "exception"
)

// newEntry builds the common part of every ledger entry from the ambient
// context.
func newEntry(ctx context.Context, action Action, entityType string) *models.AuditLog {
	c := Capture(ctx)
	return &models.AuditLog{
		ActorID:    c.ActorID,
		Action:     string(action),
		EntityType: entityType,
		Route:      optional(c.Route),
		Method:     optional(c.Method),
		URL:        optional(c.URL),
		IP:         optional(c.IP),
		UserAgent:  optional(c.UserAgent),
		RequestID:  optional(c.RequestID),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
