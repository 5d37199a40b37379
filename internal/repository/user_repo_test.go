package repository

import (
	"context"
	"fmt"
	"testing"

	"refearn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAncestors_FullChain(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	gp := seedUser(t, db, "gp", nil)
	parent := seedUser(t, db, "parent", &gp.ID)
	buyer := seedUser(t, db, "buyer", &parent.ID)

	p, g, err := repo.ResolveAncestors(context.Background(), buyer.ID)

	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, g)
	assert.Equal(t, parent.ID, p.ID)
	assert.Equal(t, gp.ID, g.ID)
}

func TestResolveAncestors_StopsAtRoot(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	root := seedUser(t, db, "root", nil)
	child := seedUser(t, db, "child", &root.ID)

	// one hop available: parent only
	p, g, err := repo.ResolveAncestors(context.Background(), child.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, root.ID, p.ID)
	assert.Nil(t, g)

	// zero hops: the root itself
	p, g, err = repo.ResolveAncestors(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, g)
}

func TestResolveAncestors_UnknownPurchaser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, _, err := repo.ResolveAncestors(context.Background(), 42)

	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCanAddReferral_CapsDirectChildren(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	parent := seedUser(t, db, "parent", nil)

	for i := 0; i < 8; i++ {
		seedUser(t, db, fmt.Sprintf("child-%d", i), &parent.ID)
	}

	ok, err := repo.CanAddReferral(context.Background(), parent.ID, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CanAddReferral(context.Background(), parent.ID, 9)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListReferrals_TwoLevels(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	root := seedUser(t, db, "root", nil)
	c1 := seedUser(t, db, "c1", &root.ID)
	c2 := seedUser(t, db, "c2", &root.ID)
	g1 := seedUser(t, db, "g1", &c1.ID)
	seedUser(t, db, "unrelated", nil)

	level1, level2, err := repo.ListReferrals(context.Background(), root.ID)

	require.NoError(t, err)
	require.Len(t, level1, 2)
	assert.Equal(t, c1.ID, level1[0].ID)
	assert.Equal(t, c2.ID, level1[1].ID)
	require.Len(t, level2, 1)
	assert.Equal(t, g1.ID, level2[0].ID)
}
