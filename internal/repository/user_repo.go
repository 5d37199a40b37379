package repository

import (
	"context"
	"errors"

	"refearn/internal/domain"
	"refearn/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ResolveAncestors walks the parent chain at most two hops up from the
// purchaser. A nil slot means the chain ended there; only a missing
// purchaser is an error. Snapshot reads, no locking: a parent reassigned
// mid-flight is an accepted race.
func (r *UserRepository) ResolveAncestors(ctx context.Context, userID uint) (parent, grandparent *models.User, err error) {
	purchaser, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if purchaser.IsRoot() {
		return nil, nil, nil
	}
	parent, err = r.GetByID(ctx, *purchaser.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, nil // dangling weak ref, treat as root
		}
		return nil, nil, err
	}
	if parent.IsRoot() {
		return parent, nil, nil
	}
	grandparent, err = r.GetByID(ctx, *parent.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return parent, nil, nil
		}
		return nil, nil, err
	}
	return parent, grandparent, nil
}

// CountReferrals returns the number of direct children of the given user.
func (r *UserRepository) CountReferrals(ctx context.Context, parentID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("parent_id = ?", parentID).Count(&n).Error
	return n, err
}

// CanAddReferral is the admission check: a parent may hold at most max
// direct referrals.
func (r *UserRepository) CanAddReferral(ctx context.Context, parentID uint, max int) (bool, error) {
	n, err := r.CountReferrals(ctx, parentID)
	if err != nil {
		return false, err
	}
	return n < int64(max), nil
}

// ListReferrals returns the direct children (level 1) and their children
// (level 2) of the given user.
func (r *UserRepository) ListReferrals(ctx context.Context, userID uint) (level1, level2 []models.User, err error) {
	if err = r.db.WithContext(ctx).Where("parent_id = ?", userID).Order("id ASC").Find(&level1).Error; err != nil {
		return nil, nil, err
	}
	if len(level1) == 0 {
		return level1, nil, nil
	}
	ids := make([]uint, 0, len(level1))
	for _, u := range level1 {
		ids = append(ids, u.ID)
	}
	if err = r.db.WithContext(ctx).Where("parent_id IN ?", ids).Order("id ASC").Find(&level2).Error; err != nil {
		return nil, nil, err
	}
	return level1, level2, nil
}
