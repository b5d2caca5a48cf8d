package handler

import (
	"net/http"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apierror"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/gin-gonic/gin"
)

type DebtHandler struct{ svc service.DebtService }

func NewDebtHandler(svc service.DebtService) *DebtHandler { return &DebtHandler{svc: svc} }

// CreateDebtLine godoc
// @Summary      Record a manual debt line
// @Description  Creates an item-less debt sale and charges the customer's balance atomically.
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Customer UUID"
// @Param        body body dto.CreateDebtLineRequest true "Debt line"
// @Success      201  {object} dto.DebtLineResponse
// @Failure      400  {object} apierror.APIError
// @Router       /debt/customers/{id}/debt-lines [post]
func (h *DebtHandler) CreateDebtLine(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateDebtLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateDebtLine(c.Request.Context(), customerID, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListDebtLines godoc
// @Summary      List a customer's debt lines
// @Description  With duplicateOnly=true returns groups of same-day same-amount entries instead.
// @Tags         debt
// @Produce      json
// @Security     BearerAuth
// @Param        id            path  string true  "Customer UUID"
// @Param        year          query int    false "Calendar year filter"
// @Param        duplicateOnly query bool   false "Return suspected duplicates"
// @Success      200 {array} dto.DebtLineResponse
// @Router       /debt/customers/{id}/debt-lines [get]
func (h *DebtHandler) ListDebtLines(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var filter dto.DebtLineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	if filter.DuplicateOnly {
		resp, err := h.svc.ListDuplicateDebtLines(c.Request.Context(), customerID, filter.Year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Failed to list debt lines."))
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.svc.ListDebtLines(c.Request.Context(), customerID, filter.Year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list debt lines."))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateDebtLine godoc
// @Summary      Edit a manual debt line
// @Description  Only item-less debt sales can be edited; amount changes adjust the balance atomically.
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Sale UUID"
// @Param        body body dto.UpdateDebtLineRequest true "Fields to change"
// @Success      200  {object} dto.DebtLineResponse
// @Failure      400  {object} apierror.APIError
// @Router       /debt/debt-lines/{id} [put]
func (h *DebtHandler) UpdateDebtLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDebtLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDebtLine(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteDebtLine godoc
// @Summary      Delete a manual debt line
// @Description  Settles the line's amount off the balance and removes the record atomically.
// @Tags         debt
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.DeletedResponse
// @Failure      400 {object} apierror.APIError
// @Router       /debt/debt-lines/{id} [delete]
func (h *DebtHandler) DeleteDebtLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DeleteDebtLine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreatePayment godoc
// @Summary      Record a debt payment
// @Description  Settles the amount against the customer's balance; rejects overpayment.
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePaymentRequest true "Payment"
// @Success      201  {object} dto.PaymentResponse
// @Failure      400  {object} apierror.APIError
// @Router       /debt/payments [post]
func (h *DebtHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePayment(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPayments godoc
// @Summary      List a customer's payments
// @Tags         debt
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Customer UUID"
// @Param        limit query int    false "Rows (default 20)"
// @Param        year  query int    false "Calendar year filter"
// @Success      200 {array} dto.PaymentResponse
// @Router       /debt/customers/{id}/payments [get]
func (h *DebtHandler) ListPayments(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var filter dto.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	resp, err := h.svc.ListPayments(c.Request.Context(), customerID, filter.Limit, filter.Year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list payments."))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePayment godoc
// @Summary      Edit a debt payment
// @Description  Amount changes re-adjust the customer's balance atomically.
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Payment UUID"
// @Param        body body dto.UpdatePaymentRequest true "Fields to change"
// @Success      200  {object} dto.PaymentResponse
// @Failure      400  {object} apierror.APIError
// @Router       /debt/payments/{id} [put]
func (h *DebtHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeletePayment godoc
// @Summary      Delete a debt payment
// @Description  Puts the payment's amount back on the customer's balance atomically.
// @Tags         debt
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment UUID"
// @Success      200 {object} dto.DeletedResponse
// @Failure      400 {object} apierror.APIError
// @Router       /debt/payments/{id} [delete]
func (h *DebtHandler) DeletePayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DeletePayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
