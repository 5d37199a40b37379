package repository

import (
	"testing"

	"refearn/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the same gorm settings
// the mysql path uses. A single connection serializes writes, which stands
// in for the row-level locking the production store provides.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Earning{},
		&models.Notification{},
		&models.SystemSetting{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, parentID *uint) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", ParentID: parentID}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTransaction(t *testing.T, db *gorm.DB, ref string, userID uint, cents int64) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{Reference: ref, UserID: userID, PurchaseAmountCents: cents, ProfitCents: cents}
	require.NoError(t, db.Create(txn).Error)
	return txn
}
