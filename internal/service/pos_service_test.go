package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPOSFixture() (service.POSService, *stubCustomerRepo, *stubSaleRepo, *stubProductRepo, *stubBatchRepo) {
	customers := newStubCustomerRepo()
	sales := newStubSaleRepo()
	products := newStubProductRepo()
	batches := newStubBatchRepo()
	ledger := service.NewLedgerService(customers)
	svc := service.NewPOSService(sales, products, batches, ledger, nil)
	return svc, customers, sales, products, batches
}

func daysFromNow(d int) *time.Time {
	t := time.Now().AddDate(0, 0, d)
	return &t
}

func TestCheckout_PicksEarliestExpiryBatch(t *testing.T) {
	svc, _, _, products, batches := newPOSFixture()
	productID := products.add("milk", true)

	batches.add(productID, dec("10"), dec("5"), daysFromNow(30))
	soonest := batches.add(productID, dec("10"), dec("6"), daysFromNow(3))
	batches.add(productID, dec("10"), dec("4"), nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("4"), UnitPrice: dec("10")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, soonest.String(), resp.Items[0].BatchID)
	assert.True(t, resp.Items[0].CostPrice.Equal(dec("6")))
	assert.True(t, batches.batches[soonest].RemainingQuantity.Equal(dec("6")))
}

func TestCheckout_SkipsEarliestBatchWhenShort(t *testing.T) {
	svc, _, _, products, batches := newPOSFixture()
	productID := products.add("yogurt", true)

	// The soonest batch holds only 5; a request for 8 must fall through
	// to the later batch instead of failing or splitting.
	short := batches.add(productID, dec("5"), dec("3"), daysFromNow(2))
	later := batches.add(productID, dec("10"), dec("4"), daysFromNow(45))

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("8"), UnitPrice: dec("7")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, later.String(), resp.Items[0].BatchID)
	assert.True(t, batches.batches[later].RemainingQuantity.Equal(dec("2")))
	assert.True(t, batches.batches[short].RemainingQuantity.Equal(dec("5")))
}

func TestCheckout_NullExpiryDrawnLast(t *testing.T) {
	svc, _, _, products, batches := newPOSFixture()
	productID := products.add("rice", true)

	noExpiry := batches.add(productID, dec("100"), dec("2"), nil)
	dated := batches.add(productID, dec("100"), dec("3"), daysFromNow(200))

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("1"), UnitPrice: dec("5")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, dated.String(), resp.Items[0].BatchID)
	assert.True(t, batches.batches[noExpiry].RemainingQuantity.Equal(dec("100")))
}

func TestCheckout_InsufficientStock(t *testing.T) {
	svc, _, sales, products, batches := newPOSFixture()
	productID := products.add("eggs", true)
	batches.add(productID, dec("3"), dec("1"), daysFromNow(10))

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("5"), UnitPrice: dec("2")},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Empty(t, sales.sales)
}

func TestCheckout_InactiveProductRejected(t *testing.T) {
	svc, _, _, products, batches := newPOSFixture()
	productID := products.add("discontinued soda", false)
	batches.add(productID, dec("10"), dec("1"), nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("1"), UnitPrice: dec("2")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}

func TestCheckout_DebtRequiresCustomer(t *testing.T) {
	svc, _, _, products, batches := newPOSFixture()
	productID := products.add("bread", true)
	batches.add(productID, dec("10"), dec("1"), nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentDebt,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("1"), UnitPrice: dec("2")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer")
}

func TestCheckout_DiscountExceedsTotal(t *testing.T) {
	svc, _, _, products, batches := newPOSFixture()
	productID := products.add("gum", true)
	batches.add(productID, dec("10"), dec("1"), nil)

	discount := dec("100")
	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		PaymentMethod:  model.PaymentCash,
		DiscountAmount: &discount,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("2"), UnitPrice: dec("3")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discount")
}

func TestCheckout_DebtSaleChargesCustomer(t *testing.T) {
	svc, customers, _, products, batches := newPOSFixture()
	productID := products.add("oil", true)
	batches.add(productID, dec("20"), dec("8"), daysFromNow(90))
	customerID := customers.add(dec("10"))

	cid := customerID.String()
	discount := dec("5")
	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		CustomerID:     &cid,
		PaymentMethod:  model.PaymentDebt,
		DiscountAmount: &discount,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("3"), UnitPrice: dec("12")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", resp.Sale.InvoiceNumber)
	assert.Equal(t, model.StatusUnpaid, resp.Sale.PaymentStatus)
	assert.True(t, resp.Sale.TotalAmount.Equal(dec("36")))
	assert.True(t, resp.Sale.FinalAmount.Equal(dec("31")))
	// 10 existing + 31 credit.
	assert.True(t, customers.customers[customerID].CurrentDebt.Equal(dec("41")))
}

func TestCheckout_CashSaleLeavesDebtUntouched(t *testing.T) {
	svc, customers, _, products, batches := newPOSFixture()
	productID := products.add("salt", true)
	batches.add(productID, dec("20"), dec("1"), nil)
	customerID := customers.add(dec("15"))

	cid := customerID.String()
	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		CustomerID:    &cid,
		PaymentMethod: model.PaymentCash,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("1"), UnitPrice: dec("4")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPaid, resp.Sale.PaymentStatus)
	assert.True(t, customers.customers[customerID].CurrentDebt.Equal(dec("15")))
}

// ── Lock and refund ──────────────────────────────────────────────────────────

func checkoutDebtSale(t *testing.T, svc service.POSService, customers *stubCustomerRepo, products *stubProductRepo, batches *stubBatchRepo) (uuid.UUID, uuid.UUID) {
	t.Helper()
	productID := products.add("flour", true)
	batches.add(productID, dec("50"), dec("2"), daysFromNow(60))
	customerID := customers.add(dec("0"))

	cid := customerID.String()
	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		CustomerID:    &cid,
		PaymentMethod: model.PaymentDebt,
		Items: []dto.CheckoutItemRequest{
			{ProductID: productID.String(), Quantity: dec("2"), UnitPrice: dec("10")},
		},
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.Sale.ID), customerID
}

func TestLock_IsOneWay(t *testing.T) {
	svc, customers, _, products, batches := newPOSFixture()
	saleID, _ := checkoutDebtSale(t, svc, customers, products, batches)

	userID := uuid.New()
	locked, err := svc.Lock(context.Background(), saleID, userID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)
	assert.NotNil(t, locked.LockedAt)

	_, err = svc.Lock(context.Background(), saleID, userID)
	assert.ErrorIs(t, err, apperrors.ErrSaleLocked)
}

func TestRefund_ForcesLock(t *testing.T) {
	svc, customers, sales, products, batches := newPOSFixture()
	saleID, customerID := checkoutDebtSale(t, svc, customers, products, batches)
	require.True(t, customers.customers[customerID].CurrentDebt.Equal(dec("20")))

	userID := uuid.New()
	reason := "wrong items"
	resp, err := svc.Refund(context.Background(), saleID, userID, dto.RefundRequest{Reason: &reason})
	require.NoError(t, err)

	assert.NotNil(t, resp.RefundedAt)
	assert.Equal(t, "wrong items", *resp.RefundNotes)
	assert.True(t, resp.IsLocked)
	assert.Equal(t, userID, *sales.sales[saleID].LockedBy)

	// Refunds are bookkeeping only: the outstanding charge stays on the
	// customer and batches keep their consumed quantities.
	assert.True(t, customers.customers[customerID].CurrentDebt.Equal(dec("20")))
	for _, b := range batches.batches {
		assert.True(t, b.RemainingQuantity.Equal(dec("48")))
	}
}

func TestRefund_KeepsExistingLock(t *testing.T) {
	svc, customers, sales, products, batches := newPOSFixture()
	saleID, _ := checkoutDebtSale(t, svc, customers, products, batches)

	locker := uuid.New()
	_, err := svc.Lock(context.Background(), saleID, locker)
	require.NoError(t, err)
	lockedAt := *sales.sales[saleID].LockedAt

	resp, err := svc.Refund(context.Background(), saleID, uuid.New(), dto.RefundRequest{})
	require.NoError(t, err)

	assert.True(t, resp.IsLocked)
	assert.Equal(t, locker, *sales.sales[saleID].LockedBy)
	assert.True(t, sales.sales[saleID].LockedAt.Equal(lockedAt))
}

func TestRefund_AlreadyRefundedRejected(t *testing.T) {
	svc, customers, _, products, batches := newPOSFixture()
	saleID, _ := checkoutDebtSale(t, svc, customers, products, batches)

	_, err := svc.Refund(context.Background(), saleID, uuid.New(), dto.RefundRequest{})
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), saleID, uuid.New(), dto.RefundRequest{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRefunded)
}
