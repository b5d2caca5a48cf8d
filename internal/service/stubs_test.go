package service_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil, so services run their transaction
// body directly; the stubs enforce the same guards as the SQL they stand for.

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) add(debt decimal.Decimal) uuid.UUID {
	id := uuid.New()
	r.customers[id] = &model.Customer{ID: id, Name: "test customer", CurrentDebt: debt, IsActive: true}
	return id
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.IsActive = false
	return nil
}

// ApplyDebtDeltaTx mirrors the conditional UPDATE: the delta is rejected
// whenever it would drive the balance negative.
func (r *stubCustomerRepo) ApplyDebtDeltaTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	next := c.CurrentDebt.Add(delta)
	if next.IsNegative() {
		return apperrors.ErrInvalidAmount
	}
	c.CurrentDebt = next
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	itemCounts map[uuid.UUID]int64
	invoiceSeq int64
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales:      make(map[uuid.UUID]*model.Sale),
		itemCounts: make(map[uuid.UUID]int64),
	}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for i := range s.Items {
		s.Items[i].SaleID = s.ID
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
	}
	r.itemCounts[s.ID] = int64(len(s.Items))
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _, _ int) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListDebtLines(_ context.Context, customerID uuid.UUID, _ int) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID && s.PaymentMethod == model.PaymentDebt {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListDuplicateDebtLines(_ context.Context, _ uuid.UUID, _ int) ([]repository.DuplicateDebtLine, error) {
	return nil, nil
}

func (r *stubSaleRepo) CountItems(_ context.Context, saleID uuid.UUID) (int64, error) {
	return r.itemCounts[saleID], nil
}

func (r *stubSaleRepo) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	s, ok := r.sales[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "total_amount":
			s.TotalAmount = v.(decimal.Decimal)
		case "final_amount":
			s.FinalAmount = v.(decimal.Decimal)
		case "discount_amount":
			s.DiscountAmount = v.(decimal.Decimal)
		case "created_at":
			s.CreatedAt = v.(time.Time)
		case "due_date":
			if d, ok := v.(*time.Time); ok {
				s.DueDate = d
			}
		case "notes":
			n := v.(string)
			s.Notes = &n
		case "refunded_at":
			t := v.(time.Time)
			s.RefundedAt = &t
		case "refunded_by":
			u := v.(uuid.UUID)
			s.RefundedBy = &u
		case "refund_notes":
			n := v.(string)
			s.RefundNotes = &n
		case "is_locked":
			s.IsLocked = v.(bool)
		case "locked_at":
			t := v.(time.Time)
			s.LockedAt = &t
		case "locked_by":
			u := v.(uuid.UUID)
			s.LockedBy = &u
		}
	}
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) Update(_ context.Context, s *model.Sale) error {
	if _, ok := r.sales[s.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.invoiceSeq++
	return r.invoiceSeq, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubPaymentRepo struct {
	payments map[uuid.UUID]*model.DebtPayment
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[uuid.UUID]*model.DebtPayment)}
}

func (r *stubPaymentRepo) CreateTx(_ *gorm.DB, p *model.DebtPayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.payments[p.ID] = p
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DebtPayment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPaymentRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _, _ int) ([]model.DebtPayment, error) {
	var out []model.DebtPayment
	for _, p := range r.payments {
		if p.CustomerID == customerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	p, ok := r.payments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "amount":
			p.Amount = v.(decimal.Decimal)
		case "payment_method":
			p.PaymentMethod = v.(string)
		case "notes":
			n := v.(string)
			p.Notes = &n
		}
	}
	return nil
}

func (r *stubPaymentRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.payments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *stubPaymentRepo) DB() *gorm.DB { return nil }

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(name string, active bool) uuid.UUID {
	id := uuid.New()
	r.products[id] = &model.Product{ID: id, Name: name, Unit: "pc", IsActive: active}
	return id
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ bool) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (r *stubProductRepo) InventorySummaries(_ context.Context) (map[uuid.UUID]repository.InventorySummary, error) {
	return map[uuid.UUID]repository.InventorySummary{}, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubBatchRepo struct {
	batches map[uuid.UUID]*model.InventoryBatch
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[uuid.UUID]*model.InventoryBatch)}
}

func (r *stubBatchRepo) add(productID uuid.UUID, remaining decimal.Decimal, cost decimal.Decimal, expiry *time.Time) uuid.UUID {
	id := uuid.New()
	r.batches[id] = &model.InventoryBatch{
		ID:                id,
		ProductID:         productID,
		Quantity:          remaining,
		RemainingQuantity: remaining,
		CostPrice:         cost,
		ExpiryDate:        expiry,
	}
	return id
}

func (r *stubBatchRepo) Create(_ context.Context, b *model.InventoryBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return b, nil
}

// FindFEFOForUpdateTx mirrors the ORDER BY expiry_date ASC NULLS LAST query:
// earliest expiry wins, never-expiring batches are drawn last.
func (r *stubBatchRepo) FindFEFOForUpdateTx(_ *gorm.DB, productID uuid.UUID, qty decimal.Decimal) (*model.InventoryBatch, error) {
	var candidates []*model.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.RemainingQuantity.GreaterThanOrEqual(qty) {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil, apperrors.ErrInsufficientStock
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].ExpiryDate, candidates[j].ExpiryDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	cp := *candidates[0]
	return &cp, nil
}

func (r *stubBatchRepo) ConsumeTx(_ *gorm.DB, batchID uuid.UUID, qty decimal.Decimal) error {
	b, ok := r.batches[batchID]
	if !ok {
		return apperrors.ErrNotFound
	}
	next := b.RemainingQuantity.Sub(qty)
	if next.IsNegative() {
		return errors.New("remaining quantity would go negative")
	}
	b.RemainingQuantity = next
	return nil
}

func (r *stubBatchRepo) NearExpiry(_ context.Context, _ time.Duration) ([]repository.NearExpiryRow, error) {
	return nil, nil
}

func (r *stubBatchRepo) LowStock(_ context.Context) ([]repository.LowStockRow, error) {
	return nil, nil
}

var _ repository.BatchRepository = (*stubBatchRepo)(nil)
