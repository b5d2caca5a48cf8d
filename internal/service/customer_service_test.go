package service_test

import (
	"context"
	"testing"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerFixture() (service.CustomerService, *stubCustomerRepo, *stubSaleRepo, *stubPaymentRepo) {
	customers := newStubCustomerRepo()
	sales := newStubSaleRepo()
	payments := newStubPaymentRepo()
	svc := service.NewCustomerService(customers, sales, payments)
	return svc, customers, sales, payments
}

func TestCustomerCreate_StartsWithZeroDebt(t *testing.T) {
	svc, _, _, _ := newCustomerFixture()

	limit := dec("500")
	resp, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:      "Nguyen Van A",
		DebtLimit: &limit,
	})
	require.NoError(t, err)

	assert.True(t, resp.CurrentDebt.IsZero())
	assert.True(t, resp.DebtLimit.Equal(dec("500")))
	assert.True(t, resp.IsActive)
}

func TestCustomerUpdate_EmptyRequest(t *testing.T) {
	svc, customers, _, _ := newCustomerFixture()
	id := customers.add(dec("0"))

	_, err := svc.Update(context.Background(), id, dto.UpdateCustomerRequest{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyUpdate)
}

func TestCustomerUpdate_NeverTouchesBalance(t *testing.T) {
	svc, customers, _, _ := newCustomerFixture()
	id := customers.add(dec("120"))

	name := "Renamed"
	resp, err := svc.Update(context.Background(), id, dto.UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", resp.Name)
	assert.True(t, resp.CurrentDebt.Equal(dec("120")))
}

func TestCustomerHistory_MergesSalesAndPayments(t *testing.T) {
	svc, customers, sales, payments := newCustomerFixture()
	id := customers.add(dec("50"))

	require.NoError(t, sales.CreateTx(nil, &model.Sale{
		InvoiceNumber: "INV-000009",
		CustomerID:    &id,
		PaymentMethod: model.PaymentDebt,
		PaymentStatus: model.StatusUnpaid,
		TotalAmount:   dec("50"),
		FinalAmount:   dec("50"),
		CreatedBy:     uuid.New(),
	}))
	require.NoError(t, payments.CreateTx(nil, &model.DebtPayment{
		CustomerID:    id,
		Amount:        dec("20"),
		PaymentMethod: "cash",
		CreatedBy:     uuid.New(),
	}))

	resp, err := svc.History(context.Background(), id, dto.HistoryFilter{Limit: 20})
	require.NoError(t, err)

	require.Len(t, resp.Sales, 1)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "INV-000009", resp.Sales[0].InvoiceNumber)
	assert.True(t, resp.Payments[0].Amount.Equal(dec("20")))
}

func TestCustomerHistory_UnknownCustomer(t *testing.T) {
	svc, _, _, _ := newCustomerFixture()

	_, err := svc.History(context.Background(), uuid.New(), dto.HistoryFilter{Limit: 20})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
