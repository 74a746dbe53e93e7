package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/milsabores/pasteleria-backend/internal/promotions"
)

// ProfileSource adapts the users repository to the promotion engine's
// lookup contract: (nil, nil) on no match, never a partial profile.
type ProfileSource struct {
	repo *Repository
}

// NewProfileSource wraps the repository for discount computation.
func NewProfileSource(repo *Repository) (*ProfileSource, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &ProfileSource{repo: repo}, nil
}

func (p *ProfileSource) FindProfile(ctx context.Context, email string) (*promotions.Profile, error) {
	user, err := p.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}

	profile := &promotions.Profile{
		Email:     user.Email,
		BirthDate: user.BirthDate,
	}
	if user.BenefitTag != nil {
		profile.BenefitTag = *user.BenefitTag
	}
	if user.RegistrationCode != nil {
		profile.RegistrationCode = *user.RegistrationCode
	}
	return profile, nil
}
