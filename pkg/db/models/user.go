package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/enums"
)

// User is the canonical identity entity. The registration flow is the single
// writer of the promotion-relevant fields (birth date, benefit tag,
// registration code); the discount engine only ever reads them.
type User struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string           `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash     string           `gorm:"column:password_hash;not null"`
	FirstName        string           `gorm:"column:first_name;not null"`
	LastName         string           `gorm:"column:last_name;not null"`
	Phone            *string          `gorm:"column:phone"`
	BirthDate        *time.Time       `gorm:"column:birth_date;type:date"`
	BenefitTag       *string          `gorm:"column:benefit_tag"`
	RegistrationCode *string          `gorm:"column:registration_code"`
	Role             enums.MemberRole `gorm:"column:role;not null;default:'customer'"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	LastLoginAt      *time.Time       `gorm:"column:last_login_at"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
