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
	"gorm.io/gorm/clause"
)

// BatchRepository defines the data access contract for inventory batches.
// The FEFO pair (FindFEFOForUpdateTx + ConsumeTx) must be called inside one
// transaction: the row lock taken by the first call protects the decrement
// applied by the second.
type BatchRepository interface {
	Create(ctx context.Context, b *model.InventoryBatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error)

	// FindFEFOForUpdateTx picks the batch with the soonest expiry (nulls
	// last) among batches of the product holding at least qty remaining,
	// locking the row FOR UPDATE. Returns apperrors.ErrInsufficientStock
	// when no single batch can satisfy the request.
	FindFEFOForUpdateTx(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) (*model.InventoryBatch, error)

	// ConsumeTx decrements remaining_quantity, guarded so the row can never
	// go negative even without the prior lock.
	ConsumeTx(tx *gorm.DB, batchID uuid.UUID, qty decimal.Decimal) error

	NearExpiry(ctx context.Context, within time.Duration) ([]NearExpiryRow, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
}

// NearExpiryRow is a batch approaching its expiry date with stock left.
type NearExpiryRow struct {
	BatchID           uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	BatchNumber       *string
	RemainingQuantity decimal.Decimal
	ExpiryDate        time.Time
}

// LowStockRow is a product whose summed remaining quantity fell to or below
// its minimum stock level.
type LowStockRow struct {
	ProductID     uuid.UUID
	ProductName   string
	Unit          string
	TotalQuantity decimal.Decimal
	MinStockLevel decimal.Decimal
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) Create(ctx context.Context, b *model.InventoryBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *batchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	var b model.InventoryBatch
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	return &b, err
}

func (r *batchRepo) FindFEFOForUpdateTx(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) (*model.InventoryBatch, error) {
	var b model.InventoryBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND remaining_quantity >= ?", productID, qty).
		Order("expiry_date ASC NULLS LAST, received_date ASC, created_at ASC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) ConsumeTx(tx *gorm.DB, batchID uuid.UUID, qty decimal.Decimal) error {
	res := tx.Model(&model.InventoryBatch{}).
		Where("id = ? AND remaining_quantity >= ?", batchID, qty).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInsufficientStock
	}
	return nil
}

func (r *batchRepo) NearExpiry(ctx context.Context, within time.Duration) ([]NearExpiryRow, error) {
	var rows []NearExpiryRow
	cutoff := time.Now().Add(within)
	err := r.db.WithContext(ctx).Model(&model.InventoryBatch{}).
		Select("inventory_batches.id AS batch_id, inventory_batches.product_id, products.name AS product_name, inventory_batches.batch_number, inventory_batches.remaining_quantity, inventory_batches.expiry_date").
		Joins("JOIN products ON products.id = inventory_batches.product_id").
		Where("inventory_batches.remaining_quantity > 0 AND inventory_batches.expiry_date IS NOT NULL AND inventory_batches.expiry_date <= ?", cutoff).
		Order("inventory_batches.expiry_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *batchRepo) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("products.id AS product_id, products.name AS product_name, products.unit, COALESCE(SUM(inventory_batches.remaining_quantity), 0) AS total_quantity, products.min_stock_level").
		Joins("LEFT JOIN inventory_batches ON inventory_batches.product_id = products.id").
		Where("products.is_active = true").
		Group("products.id, products.name, products.unit, products.min_stock_level").
		Having("COALESCE(SUM(inventory_batches.remaining_quantity), 0) <= products.min_stock_level").
		Order("products.name ASC").
		Scan(&rows).Error
	return rows, err
}
