package handler

import (
	"net/http"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apierror"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc service.InventoryService

	// alertDays is the expiry window applied when the request omits ?days.
	alertDays int
}

func NewInventoryHandler(svc service.InventoryService, alertDays int) *InventoryHandler {
	return &InventoryHandler{svc: svc, alertDays: alertDays}
}

// StockIn godoc
// @Summary      Receive stock
// @Description  Creates an inventory batch with its own cost and expiry; the movement trail is written asynchronously.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.StockInRequest true "Batch"
// @Success      201  {object} dto.BatchResponse
// @Failure      400  {object} apierror.APIError
// @Router       /inventory/stock-in [post]
func (h *InventoryHandler) StockIn(c *gin.Context) {
	var req dto.StockInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.StockIn(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Alerts godoc
// @Summary      Near-expiry and low-stock alerts
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Expiry window in days (defaults to EXPIRY_ALERT_DAYS)"
// @Success      200 {object} dto.AlertsResponse
// @Router       /inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	var filter dto.AlertFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.Days <= 0 {
		filter.Days = h.alertDays
	}
	resp, err := h.svc.Alerts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute alerts."))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSupplier godoc
// @Summary      Create a supplier
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSupplierRequest true "Supplier"
// @Success      201  {object} dto.SupplierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /inventory/suppliers [post]
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSuppliers godoc
// @Summary      List suppliers
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        includeInactive query bool false "Include deactivated suppliers"
// @Success      200 {array} dto.SupplierResponse
// @Router       /inventory/suppliers [get]
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	resp, err := h.svc.ListSuppliers(c.Request.Context(), includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list suppliers."))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSupplier godoc
// @Summary      Update a supplier
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Supplier UUID"
// @Param        body body dto.UpdateSupplierRequest true "Fields to change"
// @Success      200  {object} dto.SupplierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /inventory/suppliers/{id} [put]
func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateSupplier godoc
// @Summary      Deactivate a supplier
// @Tags         inventory
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /inventory/suppliers/{id} [delete]
func (h *InventoryHandler) DeactivateSupplier(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreatePurchaseOrder godoc
// @Summary      Create a purchase order
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePurchaseOrderRequest true "Order"
// @Success      201  {object} dto.PurchaseOrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /inventory/purchase-orders [post]
func (h *InventoryHandler) CreatePurchaseOrder(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePurchaseOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPurchaseOrders godoc
// @Summary      List purchase orders
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending | in_progress | completed | cancelled"
// @Success      200 {array} dto.PurchaseOrderResponse
// @Router       /inventory/purchase-orders [get]
func (h *InventoryHandler) ListPurchaseOrders(c *gin.Context) {
	resp, err := h.svc.ListPurchaseOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list purchase orders."))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPurchaseOrder godoc
// @Summary      Get a purchase order
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase order UUID"
// @Success      200 {object} dto.PurchaseOrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /inventory/purchase-orders/{id} [get]
func (h *InventoryHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePurchaseOrder godoc
// @Summary      Update a purchase order
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Purchase order UUID"
// @Param        body body dto.UpdatePurchaseOrderRequest true "Fields to change"
// @Success      200  {object} dto.PurchaseOrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /inventory/purchase-orders/{id} [put]
func (h *InventoryHandler) UpdatePurchaseOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePurchaseOrder(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeletePurchaseOrder godoc
// @Summary      Delete a purchase order
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase order UUID"
// @Success      200 {object} dto.DeletedResponse
// @Failure      404 {object} apierror.APIError
// @Router       /inventory/purchase-orders/{id} [delete]
func (h *InventoryHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DeletePurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
