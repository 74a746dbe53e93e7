package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	"github.com/milsabores/pasteleria-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Phone       *string          `json:"phone,omitempty"`
	BirthDate   *string          `json:"birth_date,omitempty"`
	BenefitTag  *string          `json:"benefit_tag,omitempty"`
	Role        enums.MemberRole `json:"role"`
	IsActive    bool             `json:"is_active"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Phone            *string
	BirthDate        *time.Time
	BenefitTag       *string
	RegistrationCode *string
	Role             enums.MemberRole
}

// UpdateUserDTO carries the admin-editable fields; nil means leave as-is.
type UpdateUserDTO struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	BirthDate  *time.Time
	BenefitTag *string
	Role       *enums.MemberRole
	IsActive   *bool
}

const birthDateLayout = "2006-01-02"

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	var birthDate *string
	if u.BirthDate != nil {
		formatted := u.BirthDate.Format(birthDateLayout)
		birthDate = &formatted
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		BirthDate:   birthDate,
		BenefitTag:  u.BenefitTag,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.MemberRoleCustomer
	}
	return &models.User{
		Email:            c.Email,
		PasswordHash:     c.PasswordHash,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Phone:            c.Phone,
		BirthDate:        c.BirthDate,
		BenefitTag:       c.BenefitTag,
		RegistrationCode: c.RegistrationCode,
		Role:             role,
		IsActive:         true,
	}
}
