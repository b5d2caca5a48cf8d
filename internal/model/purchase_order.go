package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a goods provider referenced by purchase orders.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Phone     *string
	Email     *string
	Address   *string
	TaxCode   *string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Purchase order statuses.
const (
	POPending    = "pending"
	POInProgress = "in_progress"
	POCompleted  = "completed"
	POCancelled  = "cancelled"
)

// PurchaseOrder is a restocking request; receiving goods against it goes
// through stock-in, which creates inventory batches.
type PurchaseOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string          `gorm:"uniqueIndex;not null"`
	SupplierID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status      string          `gorm:"not null;default:'pending'"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Warehouse   *string
	Notes       *string
	ReceivedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt       time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
