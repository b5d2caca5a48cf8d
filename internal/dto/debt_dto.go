package dto

import "github.com/shopspring/decimal"

// ─── Debt lines ──────────────────────────────────────────────────────────────

type CreateDebtLineRequest struct {
	Amount       decimal.Decimal `json:"amount"        validate:"required,gt=0"`
	PurchaseDate *string         `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate      *string         `json:"due_date"      validate:"omitempty,datetime=2006-01-02"`
	Notes        *string         `json:"notes"`
}

// UpdateDebtLineRequest: all fields optional, at least one required.
type UpdateDebtLineRequest struct {
	Amount       *decimal.Decimal `json:"amount"        validate:"omitempty,gt=0"`
	PurchaseDate *string          `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate      *string          `json:"due_date"      validate:"omitempty,datetime=2006-01-02"`
	Notes        *string          `json:"notes"`
}

// Empty reports whether no mutable field was supplied.
func (r UpdateDebtLineRequest) Empty() bool {
	return r.Amount == nil && r.PurchaseDate == nil && r.DueDate == nil && r.Notes == nil
}

// DebtLineFilter is bound from GET /debt/customers/:id/debt-lines.
type DebtLineFilter struct {
	Year          int  `form:"year"`
	DuplicateOnly bool `form:"duplicateOnly"`
}

type DebtLineItem struct {
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
}

type DebtLineResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CreatedAt     string          `json:"created_at"`
	DueDate       *string         `json:"due_date"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	Notes         *string         `json:"notes"`
	Items         []DebtLineItem  `json:"items"`
}

// ─── Payments ────────────────────────────────────────────────────────────────

type CreatePaymentRequest struct {
	CustomerID    string          `json:"customer_id"    validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash transfer"`
	Notes         *string         `json:"notes"`
}

// UpdatePaymentRequest: all fields optional, at least one required.
type UpdatePaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"         validate:"omitempty,gt=0"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,oneof=cash transfer"`
	Notes         *string          `json:"notes"`
}

// Empty reports whether no mutable field was supplied.
func (r UpdatePaymentRequest) Empty() bool {
	return r.Amount == nil && r.PaymentMethod == nil && r.Notes == nil
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         *string         `json:"notes"`
	CreatedAt     string          `json:"created_at"`
}

// DeletedResponse is returned by delete endpoints.
type DeletedResponse struct {
	ID string `json:"id"`
}
