package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

func newLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestGormStoreAppendOutlivesCancelledRequest(t *testing.T) {
	db := newLedgerDB(t)

	var deadline time.Time
	var hasDeadline bool
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:deadline", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "audit_logs" {
			deadline, hasDeadline = tx.Statement.Context.Deadline()
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	require.NoError(t, NewStore(db).Append(ctx, &models.AuditLog{Action: "created", EntityType: "Member"}))

	assert.True(t, hasDeadline)
	assert.WithinDuration(t, start.Add(defaultAppendTimeout), deadline, time.Second)
	assert.Len(t, ledger(t, db), 1)
}

func TestGormStoreAppendJoinsCallerTransaction(t *testing.T) {
	db := newLedgerDB(t)
	store := NewStore(db)

	_ = db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, store.Append(entryContext(tx), &models.AuditLog{Action: "created", EntityType: "Member"}))
		return gorm.ErrInvalidData
	})
	assert.Empty(t, ledger(t, db))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return store.Append(entryContext(tx), &models.AuditLog{Action: "created", EntityType: "Member"})
	}))
	assert.Len(t, ledger(t, db), 1)
}

func TestGormStoreFailedAppendLeavesTransactionUsable(t *testing.T) {
	db := newLedgerDB(t)
	require.NoError(t, db.AutoMigrate(&models.Member{}))
	store := NewStore(db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		first := &models.AuditLog{Action: "created", EntityType: "Member"}
		require.NoError(t, store.Append(entryContext(tx), first))

		dup := &models.AuditLog{ID: first.ID, Action: "created", EntityType: "Member"}
		require.Error(t, store.Append(entryContext(tx), dup))

		return tx.Create(&models.Member{ClubID: 1, Name: "Lia"}).Error
	}))

	assert.Len(t, ledger(t, db), 1)
	var count int64
	require.NoError(t, db.Model(&models.Member{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
