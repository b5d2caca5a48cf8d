package service

import (
	"context"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerService defines the business logic contract for debt customers.
type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID, filter dto.HistoryFilter) (*dto.CustomerHistoryResponse, error)
}

type customerService struct {
	repo        repository.CustomerRepository
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
}

func NewCustomerService(
	repo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
) CustomerService {
	return &customerService{repo: repo, saleRepo: saleRepo, paymentRepo: paymentRepo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		CurrentDebt: decimal.Zero,
		IsActive:    true,
	}
	if req.DebtLimit != nil {
		c.DebtLimit = *req.DebtLimit
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if req.Empty() {
		return nil, apperrors.ErrEmptyUpdate
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.DebtLimit != nil {
		c.DebtLimit = *req.DebtLimit
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// History returns the customer's recent sales and debt payments side by side,
// most recent first, both capped by filter.Limit.
func (s *customerService) History(ctx context.Context, id uuid.UUID, filter dto.HistoryFilter) (*dto.CustomerHistoryResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListByCustomer(ctx, id, filter.Limit, filter.Year)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByCustomer(ctx, id, filter.Limit, filter.Year)
	if err != nil {
		return nil, err
	}

	resp := &dto.CustomerHistoryResponse{
		Sales:    make([]dto.SaleSummary, 0, len(sales)),
		Payments: make([]dto.PaymentResponse, 0, len(payments)),
	}
	for i := range sales {
		resp.Sales = append(resp.Sales, saleToSummary(&sales[i]))
	}
	for i := range payments {
		resp.Payments = append(resp.Payments, paymentToResponse(&payments[i]))
	}
	return resp, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Address:     c.Address,
		DebtLimit:   c.DebtLimit,
		CurrentDebt: c.CurrentDebt,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func saleToSummary(s *model.Sale) dto.SaleSummary {
	return dto.SaleSummary{
		ID:             s.ID.String(),
		InvoiceNumber:  s.InvoiceNumber,
		TotalAmount:    s.TotalAmount,
		DiscountAmount: s.DiscountAmount,
		FinalAmount:    s.FinalAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  s.PaymentStatus,
		DueDate:        formatDatePtr(s.DueDate),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}

func paymentToResponse(p *model.DebtPayment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID.String(),
		CustomerID:    p.CustomerID.String(),
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// formatDatePtr renders a nullable time as YYYY-MM-DD.
func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// parseDatePtr parses a nullable YYYY-MM-DD string. Validation has already
// checked the layout; parse errors surface as nil.
func parseDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
