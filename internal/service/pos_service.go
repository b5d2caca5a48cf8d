package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// POSService defines the business logic contract for the point of sale.
type POSService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleDetailResponse, error)
	Lock(ctx context.Context, id, userID uuid.UUID) (*dto.LockResponse, error)
	Refund(ctx context.Context, id, userID uuid.UUID, req dto.RefundRequest) (*dto.LockResponse, error)
}

type posService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	ledger      LedgerService
	dispatcher  *worker.Dispatcher
}

func NewPOSService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	ledger LedgerService,
	dispatcher *worker.Dispatcher,
) POSService {
	return &posService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		batchRepo:   batchRepo,
		ledger:      ledger,
		dispatcher:  dispatcher,
	}
}

// ── Checkout ─────────────────────────────────────────────────────────────────
// Single ACID transaction:
//   1. Resolve products and calculate totals (pre-flight, outside TX)
//   2. BEGIN TX: nextval invoice, allocate one FEFO batch per item and
//      decrement it under the row lock, create sale+items, charge the
//      ledger when the sale is on credit
//   3. COMMIT
//   4. (async) dispatch stock movement and audit jobs

func (s *posService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apperrors.Validationf("customer_id invalid")
		}
		customerID = &cid
	}
	if req.PaymentMethod == model.PaymentDebt && customerID == nil {
		return nil, apperrors.Validationf("debt sales require a customer")
	}

	type resolvedItem struct {
		productID uuid.UUID
		name      string
		unit      string
		quantity  decimal.Decimal
		unitPrice decimal.Decimal
		subtotal  decimal.Decimal
	}

	var resolved []resolvedItem
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperrors.Validationf("product_id invalid")
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apperrors.Validationf("product %s not found", item.ProductID)
		}
		if !p.IsActive {
			return nil, apperrors.Validationf("product %s is inactive and cannot be sold", p.Name)
		}
		lineSubtotal := item.Quantity.Mul(item.UnitPrice)
		total = total.Add(lineSubtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			unit:      p.Unit,
			quantity:  item.Quantity,
			unitPrice: item.UnitPrice,
			subtotal:  lineSubtotal,
		})
	}

	discount := decimal.Zero
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}
	final := total.Sub(discount)
	if final.IsNegative() {
		return nil, apperrors.Validationf("discount exceeds sale total")
	}

	status := model.StatusPaid
	if req.PaymentMethod == model.PaymentDebt {
		status = model.StatusUnpaid
	}

	var sale model.Sale
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		n, err := s.saleRepo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			InvoiceNumber:  fmt.Sprintf("INV-%06d", n),
			CustomerID:     customerID,
			TotalAmount:    total,
			DiscountAmount: discount,
			FinalAmount:    final,
			PaymentMethod:  req.PaymentMethod,
			PaymentStatus:  status,
			DueDate:        parseDatePtr(req.DueDate),
			Notes:          req.Notes,
			CreatedBy:      userID,
		}

		// One FEFO batch per line. The row lock taken here holds until
		// commit, so concurrent checkouts serialize on the same batch.
		for _, r := range resolved {
			batch, err := s.batchRepo.FindFEFOForUpdateTx(tx, r.productID, r.quantity)
			if err != nil {
				if errors.Is(err, apperrors.ErrInsufficientStock) {
					return fmt.Errorf("%w: %s", apperrors.ErrInsufficientStock, r.name)
				}
				return err
			}
			if err := s.batchRepo.ConsumeTx(tx, batch.ID, r.quantity); err != nil {
				return err
			}
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: r.productID,
				BatchID:   batch.ID,
				Quantity:  r.quantity,
				UnitPrice: r.unitPrice,
				CostPrice: batch.CostPrice,
				Subtotal:  r.subtotal,
			})
		}

		if err := s.saleRepo.CreateTx(tx, &sale); err != nil {
			return err
		}

		if req.PaymentMethod == model.PaymentDebt {
			return s.ledger.Charge(tx, *customerID, final)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort movement trail. Never fails the committed sale.
	if s.dispatcher != nil {
		for _, item := range sale.Items {
			_ = s.dispatcher.EnqueueMovement(ctx, map[string]interface{}{
				"product_id":     item.ProductID.String(),
				"batch_id":       item.BatchID.String(),
				"movement_type":  model.MovementOut,
				"quantity":       item.Quantity.String(),
				"reference_id":   sale.ID.String(),
				"reference_type": "sale",
				"created_by":     userID.String(),
			})
		}
		_ = s.dispatcher.EnqueueAudit(ctx, map[string]interface{}{
			"user_id": userID.String(),
			"action":  fmt.Sprintf("pos.checkout %s", sale.InvoiceNumber),
		})
	}

	resp := &dto.CheckoutResponse{
		Sale:  saleToResponse(&sale),
		Items: make([]dto.SaleItemResponse, 0, len(sale.Items)),
	}
	for i, item := range sale.Items {
		ir := saleItemToResponse(&item)
		ir.ProductName = resolved[i].name
		ir.Unit = resolved[i].unit
		resp.Items = append(resp.Items, ir)
	}
	return resp, nil
}

func (s *posService) ListSales(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	sales, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, saleToResponse(&sales[i]))
	}
	return out, nil
}

func (s *posService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleDetailResponse, error) {
	sale, err := s.saleRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleDetailResponse{
		SaleResponse: saleToResponse(sale),
		Items:        make([]dto.SaleItemResponse, 0, len(sale.Items)),
	}
	for i := range sale.Items {
		ir := saleItemToResponse(&sale.Items[i])
		if p := sale.Items[i].Product; p != nil {
			ir.ProductName = p.Name
			ir.Unit = p.Unit
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp, nil
}

// Lock marks an invoice as closed for the day. Locking is one-way; a
// second lock attempt is rejected so the caller knows it already happened.
func (s *posService) Lock(ctx context.Context, id, userID uuid.UUID) (*dto.LockResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.IsLocked {
		return nil, apperrors.ErrSaleLocked
	}
	now := time.Now()
	sale.IsLocked = true
	sale.LockedAt = &now
	sale.LockedBy = &userID
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}
	resp := saleToLockResponse(sale)
	return &resp, nil
}

// Refund marks the sale refunded and forces the lock. Neither stock nor
// the customer balance is reversed; the physical goods and any money
// handed back stay with the operator to reconcile.
func (s *posService) Refund(ctx context.Context, id, userID uuid.UUID, req dto.RefundRequest) (*dto.LockResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.RefundedAt != nil {
		return nil, apperrors.ErrAlreadyRefunded
	}

	now := time.Now()
	fields := map[string]interface{}{
		"refunded_at": now,
		"refunded_by": userID,
		"is_locked":   true,
	}
	if !sale.IsLocked {
		fields["locked_at"] = now
		fields["locked_by"] = userID
	}
	if req.Reason != nil {
		fields["refund_notes"] = *req.Reason
	}
	err = runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		return s.saleRepo.UpdateFieldsTx(tx, id, fields)
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueAudit(ctx, map[string]interface{}{
			"user_id": userID.String(),
			"action":  fmt.Sprintf("pos.refund %s", sale.InvoiceNumber),
		})
	}

	updated, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := saleToLockResponse(updated)
	return &resp, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func saleToResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:             s.ID.String(),
		InvoiceNumber:  s.InvoiceNumber,
		TotalAmount:    s.TotalAmount,
		DiscountAmount: s.DiscountAmount,
		FinalAmount:    s.FinalAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  s.PaymentStatus,
		DueDate:        formatDatePtr(s.DueDate),
		Notes:          s.Notes,
		IsLocked:       s.IsLocked,
		LockedAt:       formatTimePtr(s.LockedAt),
		RefundedAt:     formatTimePtr(s.RefundedAt),
		RefundNotes:    s.RefundNotes,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		resp.CustomerID = &cid
	}
	if s.Customer != nil {
		resp.CustomerName = &s.Customer.Name
		resp.CustomerPhone = s.Customer.Phone
		resp.CustomerAddress = s.Customer.Address
	}
	return resp
}

func saleItemToResponse(item *model.SaleItem) dto.SaleItemResponse {
	return dto.SaleItemResponse{
		ID:        item.ID.String(),
		SaleID:    item.SaleID.String(),
		ProductID: item.ProductID.String(),
		BatchID:   item.BatchID.String(),
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		CostPrice: item.CostPrice,
		Subtotal:  item.Subtotal,
	}
}

func saleToLockResponse(s *model.Sale) dto.LockResponse {
	resp := dto.LockResponse{
		ID:            s.ID.String(),
		InvoiceNumber: s.InvoiceNumber,
		IsLocked:      s.IsLocked,
		LockedAt:      formatTimePtr(s.LockedAt),
		RefundedAt:    formatTimePtr(s.RefundedAt),
		RefundNotes:   s.RefundNotes,
	}
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		resp.CustomerID = &cid
	}
	return resp
}

// formatTimePtr renders a nullable time as RFC3339.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
