package service

import (
	"context"
	"errors"
	"strconv"

	"refearn/internal/domain"
	"refearn/internal/models"
	"refearn/internal/repository"

	"gorm.io/gorm"
)

// RegistryService is the user-registry collaborator: registration, lookup
// and the referral-admission check. The distribution core only ever reads
// parent/balance/identity from users created here.
type RegistryService struct {
	users        *repository.UserRepository
	settings     *repository.SettingRepository
	maxReferrals int
}

func NewRegistryService(users *repository.UserRepository, settings *repository.SettingRepository, maxReferrals int) *RegistryService {
	return &RegistryService{users: users, settings: settings, maxReferrals: maxReferrals}
}

// Register creates a user, optionally attached under a referrer. If the
// email is already registered the existing user is returned with existing
// set, matching the create-or-login behavior of the public endpoint.
func (s *RegistryService) Register(ctx context.Context, name, email string, referrerID *uint) (user *models.User, existing bool, err error) {
	if u, err := s.users.GetByEmail(ctx, email); err == nil {
		return u, true, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	if referrerID != nil {
		if _, err := s.users.GetByID(ctx, *referrerID); err != nil {
			return nil, false, err
		}
		ok, err := s.users.CanAddReferral(ctx, *referrerID, s.MaxReferrals())
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, domain.ErrReferralLimit
		}
	}

	u := &models.User{Name: name, Email: email, ParentID: referrerID}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, domain.ErrNameTaken
		}
		return nil, false, err
	}
	return u, false, nil
}

// MaxReferrals resolves the direct-referral cap, settings override first.
func (s *RegistryService) MaxReferrals() int {
	if s.settings == nil {
		return s.maxReferrals
	}
	val, err := s.settings.Get(domain.SettingMaxReferrals)
	if err != nil || val == "" {
		return s.maxReferrals
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return s.maxReferrals
	}
	return n
}
