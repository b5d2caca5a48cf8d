package service

import (
	"context"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InventoryService covers stock-in, expiry/low-stock alerts, suppliers and
// purchase orders.
type InventoryService interface {
	StockIn(ctx context.Context, userID uuid.UUID, req dto.StockInRequest) (*dto.BatchResponse, error)
	Alerts(ctx context.Context, filter dto.AlertFilter) (*dto.AlertsResponse, error)

	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	ListSuppliers(ctx context.Context, includeInactive bool) ([]dto.SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	DeactivateSupplier(ctx context.Context, id uuid.UUID) error

	CreatePurchaseOrder(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	ListPurchaseOrders(ctx context.Context, status string) ([]dto.PurchaseOrderResponse, error)
	UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	DeletePurchaseOrder(ctx context.Context, id uuid.UUID) (*dto.DeletedResponse, error)
}

type inventoryService struct {
	batchRepo    repository.BatchRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	poRepo       repository.PurchaseOrderRepository
	dispatcher   *worker.Dispatcher
	rdb          *redis.Client
}

func NewInventoryService(
	batchRepo repository.BatchRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	poRepo repository.PurchaseOrderRepository,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
) InventoryService {
	return &inventoryService{
		batchRepo:    batchRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		poRepo:       poRepo,
		dispatcher:   dispatcher,
		rdb:          rdb,
	}
}

// ── Stock-in ─────────────────────────────────────────────────────────────────

func (s *inventoryService) StockIn(ctx context.Context, userID uuid.UUID, req dto.StockInRequest) (*dto.BatchResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	batch := &model.InventoryBatch{
		ProductID:         productID,
		Quantity:          req.Quantity,
		RemainingQuantity: req.Quantity,
		CostPrice:         req.CostPrice,
		BatchNumber:       req.BatchNumber,
		ExpiryDate:        parseDatePtr(req.ExpiryDate),
		ReceivedDate:      parseDatePtr(req.ReceivedDate),
	}
	if batch.ReceivedDate == nil {
		now := time.Now()
		batch.ReceivedDate = &now
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueMovement(ctx, map[string]interface{}{
			"product_id":     productID.String(),
			"batch_id":       batch.ID.String(),
			"movement_type":  model.MovementIn,
			"quantity":       req.Quantity.String(),
			"reference_id":   batch.ID.String(),
			"reference_type": "purchase",
			"created_by":     userID.String(),
		})
	}
	// New stock changes the quantities shown in the cached product list.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, productCacheKey).Err(); err != nil {
			log.Warn().Err(err).Msg("product cache invalidation failed")
		}
	}

	resp := batchToResponse(batch)
	return &resp, nil
}

func (s *inventoryService) Alerts(ctx context.Context, filter dto.AlertFilter) (*dto.AlertsResponse, error) {
	within := time.Duration(filter.Days) * 24 * time.Hour
	nearExpiry, err := s.batchRepo.NearExpiry(ctx, within)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.batchRepo.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.AlertsResponse{
		NearExpiry: make([]dto.NearExpiryAlert, 0, len(nearExpiry)),
		LowStock:   make([]dto.LowStockAlert, 0, len(lowStock)),
	}
	for _, row := range nearExpiry {
		resp.NearExpiry = append(resp.NearExpiry, dto.NearExpiryAlert{
			BatchID:           row.BatchID.String(),
			ProductID:         row.ProductID.String(),
			ProductName:       row.ProductName,
			BatchNumber:       row.BatchNumber,
			RemainingQuantity: row.RemainingQuantity,
			ExpiryDate:        row.ExpiryDate.Format("2006-01-02"),
		})
	}
	for _, row := range lowStock {
		resp.LowStock = append(resp.LowStock, dto.LowStockAlert{
			ProductID:     row.ProductID.String(),
			ProductName:   row.ProductName,
			Unit:          row.Unit,
			TotalQuantity: row.TotalQuantity,
			MinStockLevel: row.MinStockLevel,
		})
	}
	return resp, nil
}

// ── Suppliers ────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		Code:     req.Code,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		TaxCode:  req.TaxCode,
		IsActive: true,
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *inventoryService) ListSuppliers(ctx context.Context, includeInactive bool) ([]dto.SupplierResponse, error) {
	suppliers, err := s.supplierRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *inventoryService) UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if req.Empty() {
		return nil, apperrors.ErrEmptyUpdate
	}
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Code != nil {
		supplier.Code = *req.Code
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.TaxCode != nil {
		supplier.TaxCode = req.TaxCode
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *inventoryService) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.SoftDelete(ctx, id)
}

// ── Purchase orders ──────────────────────────────────────────────────────────

func (s *inventoryService) CreatePurchaseOrder(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	po := &model.PurchaseOrder{
		Status:    model.POPending,
		Warehouse: req.Warehouse,
		Notes:     req.Notes,
		CreatedBy: userID,
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		if _, err := s.supplierRepo.FindByID(ctx, sid); err != nil {
			return nil, err
		}
		po.SupplierID = &sid
	}

	if req.OrderNumber != nil && *req.OrderNumber != "" {
		po.OrderNumber = *req.OrderNumber
	} else {
		n, err := s.poRepo.NextOrderNumber(ctx)
		if err != nil {
			return nil, err
		}
		po.OrderNumber = n
	}

	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		subtotal := item.Quantity.Mul(item.UnitPrice)
		total = total.Add(subtotal)
		po.Items = append(po.Items, model.PurchaseOrderItem{
			ProductID: pid,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
	}
	po.TotalAmount = total

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	resp := purchaseOrderToResponse(po)
	return &resp, nil
}

func (s *inventoryService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := purchaseOrderToResponse(po)
	return &resp, nil
}

func (s *inventoryService) ListPurchaseOrders(ctx context.Context, status string) ([]dto.PurchaseOrderResponse, error) {
	orders, err := s.poRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, purchaseOrderToResponse(&orders[i]))
	}
	return out, nil
}

func (s *inventoryService) UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if req.Empty() {
		return nil, apperrors.ErrEmptyUpdate
	}
	if _, err := s.poRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Warehouse != nil {
		fields["warehouse"] = *req.Warehouse
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		fields["supplier_id"] = sid
	}
	if req.ReceivedBy != nil {
		rid, err := uuid.Parse(*req.ReceivedBy)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		fields["received_by"] = rid
	}

	if err := s.poRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetPurchaseOrder(ctx, id)
}

// DeletePurchaseOrder removes the order and its items (cascade).
func (s *inventoryService) DeletePurchaseOrder(ctx context.Context, id uuid.UUID) (*dto.DeletedResponse, error) {
	if err := s.poRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &dto.DeletedResponse{ID: id.String()}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func batchToResponse(b *model.InventoryBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID.String(),
		ProductID:         b.ProductID.String(),
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		CostPrice:         b.CostPrice,
		BatchNumber:       b.BatchNumber,
		ExpiryDate:        formatDatePtr(b.ExpiryDate),
		ReceivedDate:      formatDatePtr(b.ReceivedDate),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
	}
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID.String(),
		Code:      s.Code,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		TaxCode:   s.TaxCode,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func purchaseOrderToResponse(po *model.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:          po.ID.String(),
		OrderNumber: po.OrderNumber,
		Status:      po.Status,
		TotalAmount: po.TotalAmount,
		Warehouse:   po.Warehouse,
		Notes:       po.Notes,
		TotalItems:  decimal.Zero,
		CreatedAt:   po.CreatedAt.Format(time.RFC3339),
	}
	if po.SupplierID != nil {
		sid := po.SupplierID.String()
		resp.SupplierID = &sid
	}
	if po.Supplier != nil {
		resp.SupplierName = &po.Supplier.Name
	}
	for _, item := range po.Items {
		resp.TotalItems = resp.TotalItems.Add(item.Quantity)
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return resp
}
