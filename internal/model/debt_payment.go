package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtPayment records money received against a customer's running debt.
// Creation decreases CurrentDebt; deletion/edit reverses or adjusts it.
type DebtPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaymentMethod string          `gorm:"not null"` // cash | transfer
	Notes         *string
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}
