package repository

import (
	"context"
	"errors"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository defines the data access contract for debt payments.
type PaymentRepository interface {
	CreateTx(tx *gorm.DB, p *model.DebtPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DebtPayment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, year int) ([]model.DebtPayment, error)
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) CreateTx(tx *gorm.DB, p *model.DebtPayment) error {
	return tx.Create(p).Error
}

func (r *paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DebtPayment, error) {
	var p model.DebtPayment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	return &p, err
}

func (r *paymentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, year int) ([]model.DebtPayment, error) {
	var payments []model.DebtPayment
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	q = withYear(q, year)
	err := q.Order("created_at DESC").Limit(limit).Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.DebtPayment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *paymentRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.DebtPayment{}, "id = ?", id).Error
}

func (r *paymentRepo) DB() *gorm.DB { return r.db }
