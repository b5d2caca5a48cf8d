package service

import (
	"context"
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

// DebtService manages manual debt lines and debt payments. Every balance
// mutation pairs the record write with a ledger delta inside one transaction.
type DebtService interface {
	CreateDebtLine(ctx context.Context, customerID, userID uuid.UUID, req dto.CreateDebtLineRequest) (*dto.DebtLineResponse, error)
	ListDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]dto.DebtLineResponse, error)
	ListDuplicateDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]repository.DuplicateDebtLine, error)
	UpdateDebtLine(ctx context.Context, saleID uuid.UUID, req dto.UpdateDebtLineRequest) (*dto.DebtLineResponse, error)
	DeleteDebtLine(ctx context.Context, saleID uuid.UUID) (*dto.DeletedResponse, error)

	CreatePayment(ctx context.Context, userID uuid.UUID, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, customerID uuid.UUID, limit, year int) ([]dto.PaymentResponse, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) (*dto.PaymentResponse, error)
	DeletePayment(ctx context.Context, id uuid.UUID) (*dto.DeletedResponse, error)
}

type debtService struct {
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	ledger       LedgerService
	dispatcher   *worker.Dispatcher
}

func NewDebtService(
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	ledger LedgerService,
	dispatcher *worker.Dispatcher,
) DebtService {
	return &debtService{
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		dispatcher:   dispatcher,
	}
}

// ── Debt lines ───────────────────────────────────────────────────────────────

func (s *debtService) CreateDebtLine(ctx context.Context, customerID, userID uuid.UUID, req dto.CreateDebtLineRequest) (*dto.DebtLineResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	var sale model.Sale
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		n, err := s.saleRepo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		sale = model.Sale{
			InvoiceNumber: fmt.Sprintf("DEBT-%06d", n),
			CustomerID:    &customerID,
			TotalAmount:   req.Amount,
			FinalAmount:   req.Amount,
			PaymentMethod: model.PaymentDebt,
			PaymentStatus: model.StatusUnpaid,
			DueDate:       parseDatePtr(req.DueDate),
			Notes:         req.Notes,
			CreatedBy:     userID,
		}
		if d := parseDatePtr(req.PurchaseDate); d != nil {
			sale.CreatedAt = *d
		}
		if err := s.saleRepo.CreateTx(tx, &sale); err != nil {
			return err
		}
		return s.ledger.Charge(tx, customerID, req.Amount)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.enqueueAudit(ctx, userID, fmt.Sprintf("debt_line.create %s", sale.ID))
	resp := debtLineToResponse(&sale)
	return &resp, nil
}

func (s *debtService) ListDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]dto.DebtLineResponse, error) {
	sales, err := s.saleRepo.ListDebtLines(ctx, customerID, year)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtLineResponse, 0, len(sales))
	for i := range sales {
		out = append(out, debtLineToResponse(&sales[i]))
	}
	return out, nil
}

func (s *debtService) ListDuplicateDebtLines(ctx context.Context, customerID uuid.UUID, year int) ([]repository.DuplicateDebtLine, error) {
	return s.saleRepo.ListDuplicateDebtLines(ctx, customerID, year)
}

// guardDebtLine enforces the editability rules for manual debt lines:
// the sale must be a debt sale and must not own any line items.
func (s *debtService) guardDebtLine(ctx context.Context, saleID uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.PaymentMethod != model.PaymentDebt {
		return nil, apperrors.ErrInvalidOperation
	}
	count, err := s.saleRepo.CountItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrImmutableRecord
	}
	return sale, nil
}

func (s *debtService) UpdateDebtLine(ctx context.Context, saleID uuid.UUID, req dto.UpdateDebtLineRequest) (*dto.DebtLineResponse, error) {
	if req.Empty() {
		return nil, apperrors.ErrEmptyUpdate
	}
	sale, err := s.guardDebtLine(ctx, saleID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Amount != nil {
		// Manual debt lines carry no discount.
		fields["total_amount"] = *req.Amount
		fields["final_amount"] = *req.Amount
		fields["discount_amount"] = decimal.Zero
	}
	if req.PurchaseDate != nil {
		if d := parseDatePtr(req.PurchaseDate); d != nil {
			fields["created_at"] = *d
		}
	}
	if req.DueDate != nil {
		fields["due_date"] = parseDatePtr(req.DueDate)
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		if req.Amount != nil && sale.CustomerID != nil {
			if err := s.ledger.Adjust(tx, *sale.CustomerID, sale.FinalAmount, *req.Amount); err != nil {
				return err
			}
		}
		return s.saleRepo.UpdateFieldsTx(tx, saleID, fields)
	})
	if txErr != nil {
		return nil, txErr
	}

	updated, err := s.saleRepo.FindByIDWithItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	resp := debtLineToResponse(updated)
	return &resp, nil
}

func (s *debtService) DeleteDebtLine(ctx context.Context, saleID uuid.UUID) (*dto.DeletedResponse, error) {
	sale, err := s.guardDebtLine(ctx, saleID)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		if sale.CustomerID != nil {
			if err := s.ledger.Settle(tx, *sale.CustomerID, sale.FinalAmount); err != nil {
				return err
			}
		}
		return s.saleRepo.DeleteTx(tx, saleID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &dto.DeletedResponse{ID: saleID.String()}, nil
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *debtService) CreatePayment(ctx context.Context, userID uuid.UUID, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	payment := model.DebtPayment{
		CustomerID:    customerID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}
	txErr := runTx(ctx, s.paymentRepo.DB(), func(tx *gorm.DB) error {
		// Settle first: the guard rejects payments exceeding the balance
		// before the payment row ever exists.
		if err := s.ledger.Settle(tx, customerID, req.Amount); err != nil {
			return err
		}
		return s.paymentRepo.CreateTx(tx, &payment)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.enqueueAudit(ctx, userID, fmt.Sprintf("debt_payment.create %s", payment.ID))
	resp := paymentToResponse(&payment)
	return &resp, nil
}

func (s *debtService) ListPayments(ctx context.Context, customerID uuid.UUID, limit, year int) ([]dto.PaymentResponse, error) {
	payments, err := s.paymentRepo.ListByCustomer(ctx, customerID, limit, year)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, paymentToResponse(&payments[i]))
	}
	return out, nil
}

func (s *debtService) UpdatePayment(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	if req.Empty() {
		return nil, apperrors.ErrEmptyUpdate
	}
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.PaymentMethod != nil {
		fields["payment_method"] = *req.PaymentMethod
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	txErr := runTx(ctx, s.paymentRepo.DB(), func(tx *gorm.DB) error {
		if req.Amount != nil {
			// Raising a payment lowers debt further; lowering it gives
			// debt back. The ledger delta is the negated amount change.
			delta := req.Amount.Sub(payment.Amount).Neg()
			if !delta.IsZero() {
				if err := s.applyDelta(tx, payment.CustomerID, delta); err != nil {
					return err
				}
			}
		}
		return s.paymentRepo.UpdateFieldsTx(tx, id, fields)
	})
	if txErr != nil {
		return nil, txErr
	}

	updated, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := paymentToResponse(updated)
	return &resp, nil
}

func (s *debtService) DeletePayment(ctx context.Context, id uuid.UUID) (*dto.DeletedResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.paymentRepo.DB(), func(tx *gorm.DB) error {
		// Deleting a payment puts its amount back on the books.
		if err := s.ledger.Charge(tx, payment.CustomerID, payment.Amount); err != nil {
			return err
		}
		return s.paymentRepo.DeleteTx(tx, id)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &dto.DeletedResponse{ID: id.String()}, nil
}

func (s *debtService) applyDelta(tx *gorm.DB, customerID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsPositive() {
		return s.ledger.Charge(tx, customerID, delta)
	}
	return s.ledger.Settle(tx, customerID, delta.Neg())
}

func (s *debtService) enqueueAudit(ctx context.Context, userID uuid.UUID, action string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueAudit(ctx, map[string]interface{}{
		"user_id": userID.String(),
		"action":  action,
	})
}

func debtLineToResponse(s *model.Sale) dto.DebtLineResponse {
	resp := dto.DebtLineResponse{
		ID:            s.ID.String(),
		InvoiceNumber: s.InvoiceNumber,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		DueDate:       formatDatePtr(s.DueDate),
		FinalAmount:   s.FinalAmount,
		Notes:         s.Notes,
		Items:         make([]dto.DebtLineItem, 0, len(s.Items)),
	}
	for _, item := range s.Items {
		line := dto.DebtLineItem{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.Unit = item.Product.Unit
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
