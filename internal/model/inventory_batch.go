package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatch represents one stock-in event with its own cost and expiry.
// Quantity is the as-received amount and never changes; RemainingQuantity is
// decremented by the FEFO allocator under a row lock, so two concurrent
// checkouts cannot both take the last unit.
type InventoryBatch struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BatchNumber       *string
	ExpiryDate        *time.Time `gorm:"index"`
	ReceivedDate      *time.Time
	CreatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Stock movement types.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement is the audit trail of batch quantity changes. Writes are
// best-effort: they ride the async queue and must never fail or roll back
// the primary operation.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID       *uuid.UUID      `gorm:"type:uuid"`
	MovementType  string          `gorm:"not null"` // in | out
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid"` // sale_id or batch_id
	ReferenceType *string         // "sale" | "purchase"
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time
}
