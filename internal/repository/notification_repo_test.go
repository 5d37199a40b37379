package repository

import (
	"context"
	"testing"

	"refearn/internal/domain"
	"refearn/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepo_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	user := seedUser(t, db, "nora", nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			UserID: user.ID,
			Type:   domain.NotifTypeEarning,
			Title:  "You earned a commission",
		}))
	}

	list, err := repo.ListByUserID(ctx, user.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, n := range list {
		assert.Nil(t, n.ReadAt)
	}
}

func TestNotificationRepo_MarkReadScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	owner := seedUser(t, db, "owner", nil)
	other := seedUser(t, db, "other", nil)

	ctx := context.Background()
	n := &models.Notification{UserID: owner.ID, Type: domain.NotifTypeEarning}
	require.NoError(t, repo.Create(ctx, n))

	// Another user's id must not flip the flag.
	require.NoError(t, repo.MarkRead(ctx, n.ID, other.ID))
	list, err := repo.ListByUserID(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].ReadAt)

	require.NoError(t, repo.MarkRead(ctx, n.ID, owner.ID))
	list, err = repo.ListByUserID(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].ReadAt)
}

func TestNotificationRepo_HonorsContextDeadline(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	user := seedUser(t, db, "late", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &models.Notification{UserID: user.ID, Type: domain.NotifTypeEarning})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
