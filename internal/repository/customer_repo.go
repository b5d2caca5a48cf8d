package repository

import (
	"context"
	"errors"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerRepository defines the data access contract for customers.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ApplyDebtDeltaTx applies a signed delta to current_debt in a single
	// conditional UPDATE guarded by current_debt + delta >= 0. Callers must
	// pass the surrounding transaction so the balance change commits or
	// rolls back together with the record mutation that triggered it.
	// Returns apperrors.ErrInvalidAmount when the guard rejects the delta,
	// apperrors.ErrNotFound when the customer does not exist.
	ApplyDebtDeltaTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if !filter.IncludeInactive {
		q = q.Where("is_active = true")
	}
	if filter.OnlyDebt {
		q = q.Where("current_debt > 0")
	}
	if filter.Phone != "" {
		q = q.Where("phone = ?", filter.Phone)
	}
	err := q.Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *customerRepo) ApplyDebtDeltaTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	res := tx.Model(&model.Customer{}).
		Where("id = ? AND current_debt + ? >= 0", id, delta).
		Update("current_debt", gorm.Expr("current_debt + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Disambiguate: missing customer vs. guard rejection.
		var count int64
		if err := tx.Model(&model.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInvalidAmount
	}
	return nil
}

func (r *customerRepo) DB() *gorm.DB { return r.db }
