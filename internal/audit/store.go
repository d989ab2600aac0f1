package audit

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

// Store appends ledger entries. Implementations never update or delete.
type Store interface {
	Append(ctx context.Context, entry *models.AuditLog) error
}

const (
	defaultAppendTimeout = 5 * time.Second
	entrySavepoint       = "audit_entry"
)

type txKey struct{}

// entryContext returns the context entries produced by tx are written with.
// When tx runs inside a transaction the caller opened, the entry joins it.
func entryContext(tx *gorm.DB) context.Context {
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := tx.Statement.ConnPool.(gorm.TxCommitter); ok {
		return context.WithValue(ctx, txKey{}, tx)
	}
	return ctx
}

type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, timeout: defaultAppendTimeout}
}

// Append outlives a cancelled request but never waits longer than the store
// timeout. Inside a caller transaction the insert sits behind a savepoint:
// it commits or rolls back with the transaction, and its own failure leaves
// the transaction usable.
func (s *GormStore) Append(ctx context.Context, entry *models.AuditLog) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return appendInTransaction(tx.Session(&gorm.Session{NewDB: true, Context: ctx}), entry)
	}
	return s.db.Session(&gorm.Session{NewDB: true, Context: ctx}).Create(entry).Error
}

func appendInTransaction(db *gorm.DB, entry *models.AuditLog) error {
	if err := db.SavePoint(entrySavepoint).Error; err != nil {
		return err
	}
	if err := db.Create(entry).Error; err != nil {
		db.RollbackTo(entrySavepoint)
		return err
	}
	return nil
}

// MemoryStore keeps entries in memory. Err, when set, is returned by every
// Append.
type MemoryStore struct {
	mu      sync.Mutex
	entries []models.AuditLog
	Err     error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	entry.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *MemoryStore) Entries() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog{}, s.entries...)
}
