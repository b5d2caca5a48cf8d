package dto

import "github.com/shopspring/decimal"

// CustomerFilter is bound from the query string of GET /debt/customers.
type CustomerFilter struct {
	OnlyDebt        bool   `form:"onlyDebt"`
	IncludeInactive bool   `form:"includeInactive"`
	Phone           string `form:"phone"`
}

type CreateCustomerRequest struct {
	Name      string           `json:"name"       validate:"required,min=1"`
	Phone     *string          `json:"phone"`
	Address   *string          `json:"address"`
	DebtLimit *decimal.Decimal `json:"debt_limit" validate:"omitempty"`
}

// UpdateCustomerRequest: all fields optional, at least one required.
type UpdateCustomerRequest struct {
	Name      *string          `json:"name"       validate:"omitempty,min=1"`
	Phone     *string          `json:"phone"`
	Address   *string          `json:"address"`
	DebtLimit *decimal.Decimal `json:"debt_limit"`
	IsActive  *bool            `json:"is_active"`
}

// Empty reports whether no mutable field was supplied.
func (r UpdateCustomerRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.Address == nil &&
		r.DebtLimit == nil && r.IsActive == nil
}

type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       *string         `json:"phone"`
	Address     *string         `json:"address"`
	DebtLimit   decimal.Decimal `json:"debt_limit"`
	CurrentDebt decimal.Decimal `json:"current_debt"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   string          `json:"created_at"`
}

// HistoryFilter is bound from GET /debt/customers/:id/history.
type HistoryFilter struct {
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
	Year  int `form:"year"`
}

type CustomerHistoryResponse struct {
	Sales    []SaleSummary     `json:"sales"`
	Payments []PaymentResponse `json:"payments"`
}

type SaleSummary struct {
	ID             string          `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	DueDate        *string         `json:"due_date"`
	CreatedAt      string          `json:"created_at"`
}
