package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentDebt     = "debt"
)

// Payment statuses.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Sale is a checkout invoice or a manually entered debt line.
// A sale with PaymentMethod=debt contributes FinalAmount to the owning
// customer's debt at creation. A sale carrying items is immutable through
// the debt-line endpoints.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber  string          `gorm:"uniqueIndex;not null"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// FinalAmount = TotalAmount - DiscountAmount
	FinalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaymentMethod string          `gorm:"not null"` // cash | transfer | debt
	PaymentStatus string          `gorm:"not null"` // paid | unpaid
	DueDate       *time.Time
	Notes         *string
	IsLocked      bool `gorm:"not null;default:false"`
	LockedAt      *time.Time
	LockedBy      *uuid.UUID `gorm:"type:uuid"`
	RefundedAt    *time.Time
	RefundedBy    *uuid.UUID `gorm:"type:uuid"`
	RefundNotes   *string
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is created atomically with its sale and never individually
// modified thereafter.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// Subtotal = Quantity * UnitPrice
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
