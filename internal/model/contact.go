package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contact is a lead in the shared contact pool. Status carries the derived
// classification from the most recent call outcome; LockedByUserID is set
// while the contact is under an exclusive lock.
type Contact struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"`
	Phone2          string          `gorm:"type:varchar(20)" json:"phone2"`
	Email           string          `gorm:"type:varchar(255)" json:"email"`
	Address         string          `gorm:"type:varchar(255)" json:"address"`
	PostalCode      string          `gorm:"type:varchar(20)" json:"postal_code"`
	RegionName      string          `gorm:"type:varchar(100)" json:"region_name"`
	SSN             string          `gorm:"type:varchar(20)" json:"ssn,omitempty"`
	DealValue       decimal.Decimal `gorm:"type:numeric" json:"deal_value"`
	Status          ContactStatus   `gorm:"type:varchar(50);not null;default:New" json:"status"`
	CreatedByUserID uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by_user_id"`
	CreatedBy       User            `gorm:"foreignKey:CreatedByUserID" json:"-"`
	LockedByUserID  *uuid.UUID      `gorm:"type:uuid;index" json:"locked_by_user_id,omitempty"`
	LockedBy        *User           `gorm:"foreignKey:LockedByUserID" json:"-"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
