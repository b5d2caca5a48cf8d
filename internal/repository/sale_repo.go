package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DuplicateDebtLine is a suspected duplicate manual debt entry: same
// customer, same amount, same calendar day, more than one row.
type DuplicateDebtLine struct {
	SaleDate    time.Time       `json:"sale_date"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Count       int64           `json:"count"`
	SaleIDs     string          `json:"sale_ids"`
}

// SaleRepository defines the data access contract for sales and their items.
type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, year int) ([]model.Sale, error)
	ListDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]model.Sale, error)
	ListDuplicateDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]DuplicateDebtLine, error)

	// CountItems reports how many line items a sale owns — the debt-line
	// guard's editability test.
	CountItems(ctx context.Context, saleID uuid.UUID) (int64, error)

	// UpdateFieldsTx / DeleteTx run inside the ledger transaction.
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	Update(ctx context.Context, s *model.Sale) error

	// NextInvoiceNumber draws from the invoice sequence inside the checkout
	// transaction so concurrent checkouts never collide.
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	return &s, err
}

func (r *saleRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Model(&model.Sale{}).Preload("Customer")
	if filter.DateFrom != "" {
		q = q.Where("created_at >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("created_at <= ?", filter.DateTo)
	}
	err := q.Order("created_at DESC").Limit(filter.Limit).Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, year int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	q = withYear(q, year)
	err := q.Order("created_at DESC").Limit(limit).Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("customer_id = ? AND payment_method = ?", customerID, model.PaymentDebt)
	q = withYear(q, year)
	err := q.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListDuplicateDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]DuplicateDebtLine, error) {
	var rows []DuplicateDebtLine
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("DATE(created_at) AS sale_date, final_amount, COUNT(*) AS count, string_agg(id::text, ',') AS sale_ids").
		Where("customer_id = ? AND payment_method = ?", customerID, model.PaymentDebt).
		Group("DATE(created_at), final_amount").
		Having("COUNT(*) > 1")
	if year > 0 {
		q = q.Where("EXTRACT(YEAR FROM created_at) = ?", year)
	}
	err := q.Order("sale_date DESC").Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) CountItems(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).Where("sale_id = ?", saleID).Count(&count).Error
	return count, err
}

func (r *saleRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Updates(fields).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) Update(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *saleRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('invoice_number_seq')").Scan(&n).Error
	return n, err
}

func (r *saleRepo) DB() *gorm.DB { return r.db }

// withYear narrows a query to one calendar year when year > 0.
func withYear(q *gorm.DB, year int) *gorm.DB {
	if year <= 0 {
		return q
	}
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(1, 0, 0))
}
