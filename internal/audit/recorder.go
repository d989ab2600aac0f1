package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

// Recorder is the single write path into the ledger. It never fails the
// caller: store errors and panics are logged and dropped.
type Recorder struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewRecorder(store Store, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		store: store,
		log:   log.Named("audit"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *Recorder) Record(ctx context.Context, entry *models.AuditLog) {
	if entry == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("audit write panicked",
				zap.Any("panic", rec),
				zap.String("action", entry.Action),
				zap.String("entity_type", entry.EntityType),
			)
		}
	}()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	if err := r.store.Append(ctx, entry); err != nil {
		r.log.Warn("audit write failed",
			zap.Error(err),
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
		)
	}
}
