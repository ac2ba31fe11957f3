package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
)

type ProductService interface {
	Create(ctx context.Context, storeID, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, productID, storeID, userID uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, storeID, userID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ListAvailable(ctx context.Context, storeID, userID uuid.UUID) ([]dto.ProductResponse, error)
	Update(ctx context.Context, productID, storeID, userID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AdjustQuantity(ctx context.Context, productID, storeID, userID uuid.UUID, req dto.AdjustQuantityRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, productID, storeID, userID uuid.UUID) error
	// Movements returns the product's stock audit trail, oldest first.
	Movements(ctx context.Context, productID, storeID, userID uuid.UUID) ([]dto.StockMovementResponse, error)
	// PriceByBarcode serves the public price check endpoint — no auth, no
	// store scoping, cached in Redis.
	PriceByBarcode(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	access    AccessService
	cache     *PriceCache
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository, access AccessService, cache *PriceCache) ProductService {
	return &productService{repo: repo, movements: movements, access: access, cache: cache}
}

const defaultMinQuantity = 5

func (s *productService) Create(ctx context.Context, storeID, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}

	minQty := defaultMinQuantity
	if req.MinQuantity != nil {
		minQty = *req.MinQuantity
	}
	p := &model.Product{
		StoreID:        storeID,
		Name:           req.Name,
		Category:       req.Category,
		UnitPrice:      req.UnitPrice,
		QuantityOnHand: req.Quantity,
		MinQuantity:    minQty,
		Barcode:        req.Barcode,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("a product with this barcode already exists")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, productID, storeID, userID uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.findVisible(ctx, productID, storeID, userID)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, storeID, userID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	products, total, err := s.repo.List(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *productService) ListAvailable(ctx context.Context, storeID, userID uuid.UUID) ([]dto.ProductResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	products, err := s.repo.ListAvailable(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, productID, storeID, userID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.findVisible(ctx, productID, storeID, userID)
	if err != nil {
		return nil, err
	}

	oldBarcode := p.Barcode
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.UnitPrice != nil {
		p.UnitPrice = *req.UnitPrice
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("a product with this barcode already exists")
		}
		return nil, err
	}

	// Price or barcode changed — kill any stale cached lookups.
	if oldBarcode != nil {
		s.cache.Invalidate(ctx, *oldBarcode)
	}
	if p.Barcode != nil {
		s.cache.Invalidate(ctx, *p.Barcode)
	}
	return productToResponse(p), nil
}

// AdjustQuantity sets the absolute quantity on hand and records a ledger
// entry for the difference.
func (s *productService) AdjustQuantity(ctx context.Context, productID, storeID, userID uuid.UUID, req dto.AdjustQuantityRequest) (*dto.ProductResponse, error) {
	if req.Quantity == nil {
		return nil, apierror.Validation("quantity is required")
	}
	if *req.Quantity < 0 {
		return nil, apierror.Validation("quantity cannot be negative")
	}

	p, err := s.findVisible(ctx, productID, storeID, userID)
	if err != nil {
		return nil, err
	}

	before := p.QuantityOnHand
	after := *req.Quantity

	// The ledger entry and the quantity change commit together or not at all.
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if cerr := s.movements.CreateTx(tx, &model.StockMovement{
			ProductID: p.ID,
			Type:      model.MovementManualAdjust,
			Delta:     after - before,
			Before:    before,
			After:     after,
			Reason:    "manual adjustment",
		}); cerr != nil {
			return cerr
		}
		return s.repo.SetQuantityTx(tx, p.ID, after)
	})
	if err != nil {
		return nil, err
	}
	p.QuantityOnHand = after

	if p.Barcode != nil {
		s.cache.Invalidate(ctx, *p.Barcode)
	}
	return productToResponse(p), nil
}

// Delete removes a product without sale history. Products referenced by sale
// lines are kept so past sales stay consistent.
func (s *productService) Delete(ctx context.Context, productID, storeID, userID uuid.UUID) error {
	p, err := s.findVisible(ctx, productID, storeID, userID)
	if err != nil {
		return err
	}
	hasSales, err := s.repo.HasSaleLines(ctx, p.ID)
	if err != nil {
		return err
	}
	if hasSales {
		return apierror.Conflict("product has sale history and cannot be deleted")
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if p.Barcode != nil {
		s.cache.Invalidate(ctx, *p.Barcode)
	}
	return nil
}

func (s *productService) Movements(ctx context.Context, productID, storeID, userID uuid.UUID) ([]dto.StockMovementResponse, error) {
	p, err := s.findVisible(ctx, productID, storeID, userID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		entry := dto.StockMovementResponse{
			ID:        m.ID.String(),
			Type:      m.Type,
			Delta:     m.Delta,
			Before:    m.Before,
			After:     m.After,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			entry.ReferenceID = &ref
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *productService) PriceByBarcode(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error) {
	if cached, ok := s.cache.Get(ctx, barcode); ok {
		return cached, nil
	}
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product not found")
		}
		return nil, err
	}
	resp := &dto.PriceCheckResponse{
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Available: p.QuantityOnHand,
		Category:  p.Category,
	}
	s.cache.Set(ctx, barcode, resp)
	return resp, nil
}

func (s *productService) findVisible(ctx context.Context, productID, storeID, userID uuid.UUID) (*model.Product, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByIDForStore(ctx, productID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product not found")
		}
		return nil, err
	}
	return p, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID.String(),
		StoreID:        p.StoreID.String(),
		Name:           p.Name,
		Category:       p.Category,
		UnitPrice:      p.UnitPrice,
		QuantityOnHand: p.QuantityOnHand,
		MinQuantity:    p.MinQuantity,
		Barcode:        p.Barcode,
	}
}
