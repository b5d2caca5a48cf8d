package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventorySummary is the per-product aggregate merged into product listings.
type InventorySummary struct {
	ProductID         uuid.UUID
	TotalQuantity     decimal.Decimal
	AvgCostPrice      *decimal.Decimal
	NearestExpiryDate *time.Time
}

// ProductRepository defines the data access contract for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, includeInactive bool) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// InventorySummaries aggregates remaining batch quantities per product,
	// replacing the materialized current_inventory view of the schema this
	// catalog descends from.
	InventorySummaries(ctx context.Context) (map[uuid.UUID]InventorySummary, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Category")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *productRepo) InventorySummaries(ctx context.Context) (map[uuid.UUID]InventorySummary, error) {
	var rows []InventorySummary
	err := r.db.WithContext(ctx).Model(&model.InventoryBatch{}).
		Select("product_id, SUM(remaining_quantity) AS total_quantity, AVG(cost_price) AS avg_cost_price, MIN(expiry_date) AS nearest_expiry_date").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]InventorySummary, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row
	}
	return out, nil
}
