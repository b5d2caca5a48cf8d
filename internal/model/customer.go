package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer carries a denormalized running debt balance.
// CurrentDebt is maintained incrementally by the ledger — every mutation goes
// through a conditional delta update, never a blind overwrite, so the
// invariant CurrentDebt >= 0 holds under concurrent writers.
type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"not null;index"`
	Phone   *string   `gorm:"index"`
	Address *string
	// DebtLimit is informational only — not enforced at sale creation.
	DebtLimit   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CurrentDebt decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
