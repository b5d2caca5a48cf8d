package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	productCacheKey = "catalog:products"
	productCacheTTL = 60 * time.Second
)

// CatalogService defines the business logic contract for categories and
// products. The active-product listing is cached in Redis because the POS
// front end polls it on every screen.
type CatalogService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	rdb          *redis.Client
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	rdb *redis.Client,
) CatalogService {
	return &catalogService{productRepo: productRepo, categoryRepo: categoryRepo, rdb: rdb}
}

// ── Categories ───────────────────────────────────────────────────────────────

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	cat := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, err
	}
	resp := categoryToResponse(cat)
	return &resp, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, categoryToResponse(&categories[i]))
	}
	return out, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Barcode:  req.Barcode,
		Name:     req.Name,
		Unit:     req.Unit,
		IsActive: true,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		p.CategoryID = &cid
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateProductCache(ctx)
	resp := productToResponse(p, nil)
	return &resp, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summaries, err := s.productRepo.InventorySummaries(ctx)
	if err != nil {
		return nil, err
	}
	var summary *repository.InventorySummary
	if sum, ok := summaries[p.ID]; ok {
		summary = &sum
	}
	resp := productToResponse(p, summary)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	// Cache covers the default listing only. Filtered or admin views go
	// straight to the database.
	cacheable := !filter.IncludeInactive
	if cacheable && s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, productCacheKey).Bytes(); err == nil {
			var cached []dto.ProductResponse
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	products, err := s.productRepo.List(ctx, filter.IncludeInactive)
	if err != nil {
		return nil, err
	}
	summaries, err := s.productRepo.InventorySummaries(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		var summary *repository.InventorySummary
		if sum, ok := summaries[products[i].ID]; ok {
			summary = &sum
		}
		out = append(out, productToResponse(&products[i], summary))
	}

	if cacheable && s.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, productCacheKey, raw, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("product cache write failed")
			}
		}
	}
	return out, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if req.Empty() {
		return nil, apperrors.ErrEmptyUpdate
	}
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		p.CategoryID = &cid
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateProductCache(ctx)
	resp := productToResponse(p, nil)
	return &resp, nil
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateProductCache(ctx)
	return nil
}

func (s *catalogService) invalidateProductCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache invalidation failed")
	}
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func categoryToResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func productToResponse(p *model.Product, summary *repository.InventorySummary) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		Barcode:       p.Barcode,
		Name:          p.Name,
		Unit:          p.Unit,
		MinStockLevel: p.MinStockLevel,
		IsActive:      p.IsActive,
		TotalQuantity: decimal.Zero,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		resp.CategoryID = &cid
	}
	if p.Category != nil {
		resp.CategoryName = &p.Category.Name
	}
	if summary != nil {
		resp.TotalQuantity = summary.TotalQuantity
		resp.AvgCostPrice = summary.AvgCostPrice
		resp.NearestExpiryDate = formatDatePtr(summary.NearestExpiryDate)
	}
	return resp
}
