package handler

import (
	"net/http"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apierror"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/gin-gonic/gin"
)

type POSHandler struct{ svc service.POSService }

func NewPOSHandler(svc service.POSService) *POSHandler { return &POSHandler{svc: svc} }

// Checkout godoc
// @Summary      Check out a sale
// @Description  Allocates one soonest-expiring batch per line under row locks, creates the invoice, and charges the customer's balance when paying on credit. Single ACID transaction.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Cart"
// @Success      201  {object} dto.CheckoutResponse
// @Failure      400  {object} apierror.APIError
// @Router       /pos/checkout [post]
func (h *POSHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSales godoc
// @Summary      List sales
// @Tags         pos
// @Produce      json
// @Security     BearerAuth
// @Param        limit    query int    false "Rows (default 200)"
// @Param        dateFrom query string false "ISO timestamp lower bound"
// @Param        dateTo   query string false "ISO timestamp upper bound"
// @Success      200 {array} dto.SaleResponse
// @Router       /pos/sales [get]
func (h *POSHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales."))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSale godoc
// @Summary      Sale detail with line items
// @Tags         pos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleDetailResponse
// @Failure      404 {object} apierror.APIError
// @Router       /pos/sales/{id} [get]
func (h *POSHandler) GetSale(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Lock godoc
// @Summary      Lock a sale
// @Description  Marks the invoice as closed. Locking is one-way; locking twice is rejected.
// @Tags         pos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.LockResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /pos/sales/{id}/lock [post]
func (h *POSHandler) Lock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Lock(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refund godoc
// @Summary      Refund a sale
// @Description  Marks the sale refunded and locks the invoice. Stock and the customer balance are not reversed.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Sale UUID"
// @Param        body body dto.RefundRequest false "Reason"
// @Success      200  {object} dto.LockResponse
// @Failure      400  {object} apierror.APIError
// @Router       /pos/sales/{id}/refund [post]
func (h *POSHandler) Refund(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return
	}
	resp, err := h.svc.Refund(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
