package dto

import "github.com/shopspring/decimal"

// ─── Checkout ────────────────────────────────────────────────────────────────

type CheckoutItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

type CheckoutRequest struct {
	CustomerID     *string               `json:"customer_id"     validate:"omitempty,uuid"`
	PaymentMethod  string                `json:"payment_method"  validate:"required,oneof=cash transfer debt"`
	DiscountAmount *decimal.Decimal      `json:"discount_amount" validate:"omitempty,min=0"`
	DueDate        *string               `json:"due_date"        validate:"omitempty,datetime=2006-01-02"`
	Notes          *string               `json:"notes"`
	Items          []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

type SaleItemResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   string          `json:"product_id"`
	BatchID     string          `json:"batch_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ProductName string          `json:"product_name,omitempty"`
	Unit        string          `json:"unit,omitempty"`
}

type SaleResponse struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerID      *string         `json:"customer_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	FinalAmount     decimal.Decimal `json:"final_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	DueDate         *string         `json:"due_date"`
	Notes           *string         `json:"notes"`
	IsLocked        bool            `json:"is_locked"`
	LockedAt        *string         `json:"locked_at"`
	RefundedAt      *string         `json:"refunded_at"`
	RefundNotes     *string         `json:"refund_notes"`
	CreatedAt       string          `json:"created_at"`
	CustomerName    *string         `json:"customer_name"`
	CustomerPhone   *string         `json:"customer_phone"`
	CustomerAddress *string         `json:"customer_address"`
}

type CheckoutResponse struct {
	Sale  SaleResponse       `json:"sale"`
	Items []SaleItemResponse `json:"items"`
}

type SaleDetailResponse struct {
	SaleResponse
	Items []SaleItemResponse `json:"items"`
}

// ─── Listing / lock / refund ─────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /pos/sales.
type SaleFilter struct {
	Limit    int    `form:"limit,default=200" validate:"min=1,max=1000"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

type RefundRequest struct {
	Reason *string `json:"reason"`
}

type LockResponse struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	IsLocked      bool    `json:"is_locked"`
	LockedAt      *string `json:"locked_at"`
	RefundedAt    *string `json:"refunded_at"`
	RefundNotes   *string `json:"refund_notes"`
	CustomerID    *string `json:"customer_id"`
}
