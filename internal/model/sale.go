package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses and outcomes are closed sets, mirroring the contact status
// enumeration style.
type SaleStatus string

const (
	SaleStatusOpen SaleStatus = "open"
	SaleStatusWon  SaleStatus = "won"
	SaleStatusLost SaleStatus = "lost"
)

func ValidSaleStatus(s SaleStatus) bool {
	return s == SaleStatusOpen || s == SaleStatusWon || s == SaleStatusLost
}

type SaleOutcome string

const (
	SaleOutcomePending  SaleOutcome = "pending"
	SaleOutcomePaid     SaleOutcome = "paid"
	SaleOutcomeRefunded SaleOutcome = "refunded"
)

func ValidSaleOutcome(o SaleOutcome) bool {
	return o == SaleOutcomePending || o == SaleOutcomePaid || o == SaleOutcomeRefunded
}

// Sale is a user-owned sales record, optionally linked to a contact. Its
// lifecycle is independent of the call ledger and the status engine.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User            `gorm:"foreignKey:UserID" json:"-"`
	ContactID *uuid.UUID      `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	Contact   *Contact        `gorm:"foreignKey:ContactID" json:"-"`
	Status    SaleStatus      `gorm:"type:varchar(50);not null;default:open" json:"status"`
	Outcome   SaleOutcome     `gorm:"type:varchar(50);not null;default:pending" json:"outcome"`
	DealValue decimal.Decimal `gorm:"type:numeric" json:"deal_value"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
