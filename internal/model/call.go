package model

import (
	"time"

	"github.com/google/uuid"
)

// Call is one row of the append-only call ledger. Rows are never updated
// after insertion; the only mutation is deletion by the creator or an admin.
// CallTime is the client-claimed moment of the call and is used for display
// ordering only — the contact status derivation trusts commit order, never
// this field.
type Call struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	ContactID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"contact_id"`
	Contact     Contact     `gorm:"foreignKey:ContactID" json:"-"`
	Duration    int         `gorm:"not null" json:"duration"` // minutes
	Disposition Disposition `gorm:"type:varchar(50);not null" json:"disposition"`
	Notes       string      `gorm:"type:text" json:"notes"`
	CallTime    *time.Time  `json:"call_time,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
}
