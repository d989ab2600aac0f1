package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrLedgerImmutable = errors.New("audit log entries are append-only")

// AuditLog is one immutable ledger entry.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorID *uint  `gorm:"index" json:"actor_id"`
	Action  string `gorm:"size:32;not null;index" json:"action"`

	EntityType  string  `gorm:"size:64;not null;index:idx_audit_logs_entity" json:"entity_type"`
	EntityID    *uint   `gorm:"index:idx_audit_logs_entity" json:"entity_id"`
	EntityLabel *string `gorm:"size:255" json:"entity_label"`

	Changes  datatypes.JSONMap `json:"changes,omitempty"`
	Metadata datatypes.JSONMap `json:"metadata,omitempty"`

	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`
	ErrorClass   *string `gorm:"size:255" json:"error_class,omitempty"`

	Route     *string `gorm:"size:255" json:"route"`
	Method    *string `gorm:"size:10" json:"method"`
	URL       *string `gorm:"type:text" json:"url"`
	IP        *string `gorm:"size:45" json:"ip"`
	UserAgent *string `gorm:"type:text" json:"user_agent"`
	RequestID *string `gorm:"size:64" json:"request_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AuditLog) BeforeUpdate(*gorm.DB) error {
	return ErrLedgerImmutable
}

func (AuditLog) BeforeDelete(*gorm.DB) error {
	return ErrLedgerImmutable
}
