package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

type fakeRecord struct {
	entityType string
	key        any
	attrs      map[string]any
	original   map[string]any
}

func (r fakeRecord) EntityType() string         { return r.entityType }
func (r fakeRecord) Key() any                   { return r.key }
func (r fakeRecord) Attributes() map[string]any { return r.attrs }
func (r fakeRecord) Original() map[string]any   { return r.original }

// newObservedDB opens a private in-memory database with the change observer
// attached to Member and User, writing through store.
func newObservedDB(t *testing.T, store Store) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.User{},
		&models.ClubClass{},
		&models.AuditLog{},
	))

	if store == nil {
		store = NewStore(db)
	}
	p := New(store, zaptest.NewLogger(t), Options{})
	require.NoError(t, p.Observe(db, &models.Member{}, &models.User{}, &models.AuditLog{}))

	return db
}

func ledger(t *testing.T, db *gorm.DB) []models.AuditLog {
	t.Helper()
	var entries []models.AuditLog
	require.NoError(t, db.Order("id ASC").Find(&entries).Error)
	return entries
}
