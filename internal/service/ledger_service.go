package service

import (
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService mutates customer debt balances. Every mutation goes through
// a single conditional UPDATE so the balance can never drop below zero,
// regardless of concurrent writers.
type LedgerService interface {
	// Charge increases the customer's balance by amount.
	Charge(tx *gorm.DB, customerID uuid.UUID, amount decimal.Decimal) error
	// Settle decreases the customer's balance by amount. Fails with
	// apperrors.ErrInvalidAmount when amount exceeds the current balance.
	Settle(tx *gorm.DB, customerID uuid.UUID, amount decimal.Decimal) error
	// Adjust applies the signed delta newAmount - oldAmount, used when an
	// existing debt line or payment is edited in place.
	Adjust(tx *gorm.DB, customerID uuid.UUID, oldAmount, newAmount decimal.Decimal) error
}

type ledgerService struct {
	customerRepo repository.CustomerRepository
}

func NewLedgerService(customerRepo repository.CustomerRepository) LedgerService {
	return &ledgerService{customerRepo: customerRepo}
}

func (s *ledgerService) Charge(tx *gorm.DB, customerID uuid.UUID, amount decimal.Decimal) error {
	return s.customerRepo.ApplyDebtDeltaTx(tx, customerID, amount)
}

func (s *ledgerService) Settle(tx *gorm.DB, customerID uuid.UUID, amount decimal.Decimal) error {
	return s.customerRepo.ApplyDebtDeltaTx(tx, customerID, amount.Neg())
}

func (s *ledgerService) Adjust(tx *gorm.DB, customerID uuid.UUID, oldAmount, newAmount decimal.Decimal) error {
	delta := newAmount.Sub(oldAmount)
	if delta.IsZero() {
		return nil
	}
	return s.customerRepo.ApplyDebtDeltaTx(tx, customerID, delta)
}
