package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderRepository defines the data access contract for purchase orders.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, status string) ([]model.PurchaseOrder, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextOrderNumber(ctx context.Context) (string, error)
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Preload("Items.Product").
		First(&po, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) List(ctx context.Context, status string) ([]model.PurchaseOrder, error) {
	q := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []model.PurchaseOrder
	err := q.Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.PurchaseOrder{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// NextOrderNumber produces a date-scoped sequential order number, e.g. PO202608290003.
func (r *purchaseOrderRepo) NextOrderNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "PO" + today + "%"
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("order_number LIKE ?", prefix).
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("PO%s%04d", today, count+1), nil
}
