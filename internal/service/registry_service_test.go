package service

import (
	"context"
	"fmt"
	"testing"

	"refearn/internal/domain"
	"refearn/internal/models"
	"refearn/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
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

func TestRegister_CreatesUserUnderReferrer(t *testing.T) {
	db := newServiceTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewRegistryService(users, nil, 8)

	referrer, _, err := svc.Register(context.Background(), "alice", "alice@example.com", nil)
	require.NoError(t, err)

	child, existing, err := svc.Register(context.Background(), "bob", "bob@example.com", &referrer.ID)
	require.NoError(t, err)
	assert.False(t, existing)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, referrer.ID, *child.ParentID)
}

func TestRegister_ExistingEmailLogsIn(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewRegistryService(repository.NewUserRepository(db), nil, 8)

	first, _, err := svc.Register(context.Background(), "alice", "alice@example.com", nil)
	require.NoError(t, err)

	again, existing, err := svc.Register(context.Background(), "someone-else", "alice@example.com", nil)
	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, first.ID, again.ID)
}

func TestRegister_UnknownReferrerRejected(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewRegistryService(repository.NewUserRepository(db), nil, 8)

	missing := uint(42)
	_, _, err := svc.Register(context.Background(), "bob", "bob@example.com", &missing)

	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_ReferralLimitEnforced(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewRegistryService(repository.NewUserRepository(db), nil, 2)

	referrer, _, err := svc.Register(context.Background(), "alice", "alice@example.com", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Register(context.Background(), fmt.Sprintf("child-%d", i), fmt.Sprintf("child-%d@example.com", i), &referrer.ID)
		require.NoError(t, err)
	}

	_, _, err = svc.Register(context.Background(), "one-too-many", "extra@example.com", &referrer.ID)
	require.ErrorIs(t, err, domain.ErrReferralLimit)
}

func TestRegister_DuplicateNameConflicts(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewRegistryService(repository.NewUserRepository(db), nil, 8)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", nil)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "alice", "other@example.com", nil)
	require.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestMaxReferrals_SettingOverridesDefault(t *testing.T) {
	db := newServiceTestDB(t)
	settings := repository.NewSettingRepository(db)
	svc := NewRegistryService(repository.NewUserRepository(db), settings, 8)

	assert.Equal(t, 8, svc.MaxReferrals())

	require.NoError(t, settings.Set(domain.SettingMaxReferrals, "3"))
	assert.Equal(t, 3, svc.MaxReferrals())
}
