package dto

import "github.com/shopspring/decimal"

// ─── Stock-in ────────────────────────────────────────────────────────────────

type StockInRequest struct {
	ProductID    string          `json:"product_id"    validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"required,gt=0"`
	CostPrice    decimal.Decimal `json:"cost_price"    validate:"required,gt=0"`
	BatchNumber  *string         `json:"batch_number"`
	ExpiryDate   *string         `json:"expiry_date"   validate:"omitempty,datetime=2006-01-02"`
	ReceivedDate *string         `json:"received_date" validate:"omitempty,datetime=2006-01-02"`
}

type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	BatchNumber       *string         `json:"batch_number"`
	ExpiryDate        *string         `json:"expiry_date"`
	ReceivedDate      *string         `json:"received_date"`
	CreatedAt         string          `json:"created_at"`
}

// ─── Alerts ──────────────────────────────────────────────────────────────────

// AlertFilter is bound from GET /inventory/alerts.
type AlertFilter struct {
	Days int `form:"days" validate:"min=1,max=365"`
}

type NearExpiryAlert struct {
	BatchID           string          `json:"batch_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	BatchNumber       *string         `json:"batch_number"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ExpiryDate        string          `json:"expiry_date"`
}

type LowStockAlert struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Unit          string          `json:"unit"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

type AlertsResponse struct {
	NearExpiry []NearExpiryAlert `json:"nearExpiry"`
	LowStock   []LowStockAlert   `json:"lowStock"`
}

// ─── Suppliers ───────────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Code     string  `json:"code"     validate:"required,min=1"`
	Name     string  `json:"name"     validate:"required,min=1"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Address  *string `json:"address"`
	TaxCode  *string `json:"tax_code"`
	IsActive *bool   `json:"is_active"`
}

// UpdateSupplierRequest: all fields optional, at least one required.
type UpdateSupplierRequest struct {
	Code     *string `json:"code"     validate:"omitempty,min=1"`
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Address  *string `json:"address"`
	TaxCode  *string `json:"tax_code"`
	IsActive *bool   `json:"is_active"`
}

// Empty reports whether no mutable field was supplied.
func (r UpdateSupplierRequest) Empty() bool {
	return r.Code == nil && r.Name == nil && r.Phone == nil && r.Email == nil &&
		r.Address == nil && r.TaxCode == nil && r.IsActive == nil
}

type SupplierResponse struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	TaxCode   *string `json:"tax_code"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}

// ─── Purchase orders ─────────────────────────────────────────────────────────

type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

type CreatePurchaseOrderRequest struct {
	OrderNumber *string                    `json:"order_number"`
	SupplierID  *string                    `json:"supplier_id" validate:"omitempty,uuid"`
	Warehouse   *string                    `json:"warehouse"`
	Notes       *string                    `json:"notes"`
	Items       []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest: all fields optional, at least one required.
type UpdatePurchaseOrderRequest struct {
	Status     *string `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Warehouse  *string `json:"warehouse"`
	Notes      *string `json:"notes"`
	SupplierID *string `json:"supplier_id" validate:"omitempty,uuid"`
	ReceivedBy *string `json:"received_by" validate:"omitempty,uuid"`
}

// Empty reports whether no mutable field was supplied.
func (r UpdatePurchaseOrderRequest) Empty() bool {
	return r.Status == nil && r.Warehouse == nil && r.Notes == nil &&
		r.SupplierID == nil && r.ReceivedBy == nil
}

type PurchaseOrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   *string                     `json:"supplier_id"`
	SupplierName *string                     `json:"supplier_name"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Warehouse    *string                     `json:"warehouse"`
	Notes        *string                     `json:"notes"`
	TotalItems   decimal.Decimal             `json:"total_items"`
	Items        []PurchaseOrderItemResponse `json:"items,omitempty"`
	CreatedAt    string                      `json:"created_at"`
}
