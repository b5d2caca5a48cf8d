package dto

import "github.com/shopspring/decimal"

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// ProductFilter is bound from the query string of GET /catalog/products.
type ProductFilter struct {
	IncludeInactive bool `form:"includeInactive"`
}

type CreateProductRequest struct {
	Barcode       *string          `json:"barcode"`
	Name          string           `json:"name"            validate:"required,min=1"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	Unit          string           `json:"unit"            validate:"required,min=1"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level" validate:"omitempty,min=0"`
	IsActive      *bool            `json:"is_active"`
}

// UpdateProductRequest: all fields optional, at least one required.
type UpdateProductRequest struct {
	Barcode       *string          `json:"barcode"`
	Name          *string          `json:"name"            validate:"omitempty,min=1"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	Unit          *string          `json:"unit"            validate:"omitempty,min=1"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level" validate:"omitempty,min=0"`
	IsActive      *bool            `json:"is_active"`
}

// Empty reports whether no mutable field was supplied.
func (r UpdateProductRequest) Empty() bool {
	return r.Barcode == nil && r.Name == nil && r.CategoryID == nil &&
		r.Unit == nil && r.MinStockLevel == nil && r.IsActive == nil
}

// ProductResponse merges the catalog row with the live inventory summary
// (total remaining quantity, average cost, nearest expiry across batches).
type ProductResponse struct {
	ID                string           `json:"id"`
	Barcode           *string          `json:"barcode"`
	Name              string           `json:"name"`
	CategoryID        *string          `json:"category_id"`
	CategoryName      *string          `json:"category_name"`
	Unit              string           `json:"unit"`
	MinStockLevel     decimal.Decimal  `json:"min_stock_level"`
	IsActive          bool             `json:"is_active"`
	TotalQuantity     decimal.Decimal  `json:"total_quantity"`
	AvgCostPrice      *decimal.Decimal `json:"avg_cost_price"`
	NearestExpiryDate *string          `json:"nearest_expiry_date"`
	CreatedAt         string           `json:"created_at"`
}
