package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/infra"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
	"github.com/DanielCanisOrtega/tienda-backend/internal/worker"
)

// SaleNotifier enqueues the async side effects of a committed sale.
// *worker.Dispatcher satisfies it; tests substitute a recorder.
type SaleNotifier interface {
	EnqueueReceiptEmail(ctx context.Context, payload worker.EmailJobPayload) error
	EnqueueLowStockAlert(ctx context.Context, payload worker.LowStockJobPayload) error
}

type SaleService interface {
	Create(ctx context.Context, storeID, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, saleID, storeID, userID uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, storeID, userID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	tills     TillService
	access    AccessService
	notifier  SaleNotifier // nil disables async side effects

	receiptPath string
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	tills TillService,
	access AccessService,
	notifier SaleNotifier,
	receiptPath string,
) SaleService {
	return &saleService{
		sales:       sales,
		products:    products,
		movements:   movements,
		tills:       tills,
		access:      access,
		notifier:    notifier,
		receiptPath: receiptPath,
	}
}

// lowStockHit is collected during the sale transaction and enqueued after
// commit, so alerts never fire for a rolled-back sale.
type lowStockHit struct {
	productName string
	remaining   int
	minQuantity int
}

// Create processes a multi-line sale atomically: every line resolves its
// product, decrements stock with a conditional update, and snapshots the unit
// price. Any failing line rolls back the whole sale and leaves all stock
// untouched.
func (s *saleService) Create(ctx context.Context, storeID, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	store, err := s.access.ResolveStore(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, apierror.Validation("a sale requires at least one line")
	}

	till, err := s.tills.FindOpen(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// Validate ids up front so the transaction never starts on bad input.
	productIDs := make([]uuid.UUID, len(req.Lines))
	for i, line := range req.Lines {
		id, perr := uuid.Parse(line.ProductID)
		if perr != nil {
			return nil, apierror.Validation(fmt.Sprintf("line %d: invalid product id", i+1))
		}
		productIDs[i] = id
	}

	sale := &model.Sale{
		StoreID:   storeID,
		TillID:    till.ID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	var hits []lowStockHit
	productNames := make(map[uuid.UUID]string)

	err = runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		total := decimal.Zero
		lines := make([]model.SaleLine, 0, len(req.Lines))
		mvs := make([]model.StockMovement, 0, len(req.Lines))

		for i, line := range req.Lines {
			p, ferr := s.products.FindByIDForStoreTx(tx, productIDs[i], storeID)
			if ferr != nil {
				if errors.Is(ferr, gorm.ErrRecordNotFound) {
					return apierror.NotFound(fmt.Sprintf("product %s not found", line.ProductID))
				}
				return ferr
			}

			// Atomic check-and-decrement. Zero rows affected means the
			// product no longer has enough stock — including when an earlier
			// line in this same sale already consumed it.
			rows, derr := s.products.DecrementStockTx(tx, p.ID, line.Quantity)
			if derr != nil {
				return derr
			}
			if rows == 0 {
				return apierror.InsufficientStock(p.Name, line.Quantity, p.QuantityOnHand)
			}

			subtotal := p.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			lines = append(lines, model.SaleLine{
				ProductID: p.ID,
				Quantity:  line.Quantity,
				UnitPrice: p.UnitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
			productNames[p.ID] = p.Name

			// QuantityOnHand was read inside this transaction, so it already
			// reflects decrements made by earlier lines of the same sale.
			after := p.QuantityOnHand - line.Quantity
			mvs = append(mvs, model.StockMovement{
				ProductID: p.ID,
				Type:      model.MovementSale,
				Delta:     -line.Quantity,
				Before:    p.QuantityOnHand,
				After:     after,
				Reason:    "sale",
			})
			if after < p.MinQuantity {
				hits = append(hits, lowStockHit{
					productName: p.Name,
					remaining:   after,
					minQuantity: p.MinQuantity,
				})
			}
		}

		sale.Total = total
		sale.Lines = lines
		if cerr := s.sales.Create(ctx, tx, sale); cerr != nil {
			return cerr
		}

		// Ledger entries reference the sale id, so they come after the insert.
		for i := range mvs {
			mvs[i].ReferenceID = &sale.ID
			if merr := s.movements.CreateTx(tx, &mvs[i]); merr != nil {
				return merr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, store, sale, req.CustomerEmail, hits, productNames)

	return saleToResponse(sale, productNames), nil
}

// afterCommit runs the non-transactional side effects: receipt PDF, receipt
// email, low-stock alerts. Failures are logged, never surfaced — the sale is
// already durable.
func (s *saleService) afterCommit(ctx context.Context, store *model.Store, sale *model.Sale, customerEmail *string, hits []lowStockHit, names map[uuid.UUID]string) {
	if s.notifier == nil {
		return
	}

	if customerEmail != nil && *customerEmail != "" {
		receipt := &infra.Receipt{
			SaleID:    sale.ID.String(),
			StoreName: store.Name,
			CreatedAt: sale.CreatedAt,
			Total:     sale.Total,
		}
		for _, l := range sale.Lines {
			receipt.Lines = append(receipt.Lines, infra.ReceiptLine{
				Name:     names[l.ProductID],
				Quantity: l.Quantity,
				Subtotal: l.Subtotal,
			})
		}
		pdfPath, perr := infra.GenerateReceiptPDF(receipt, s.receiptPath)
		if perr != nil {
			log.Error().Err(perr).Str("sale_id", sale.ID.String()).Msg("receipt PDF generation failed")
		} else if eerr := s.notifier.EnqueueReceiptEmail(ctx, worker.EmailJobPayload{
			To:      *customerEmail,
			SaleID:  sale.ID.String(),
			Store:   store.Name,
			Total:   sale.Total.StringFixed(2),
			PDFPath: pdfPath,
		}); eerr != nil {
			log.Error().Err(eerr).Str("sale_id", sale.ID.String()).Msg("failed to enqueue receipt email")
		}
	}

	for _, hit := range hits {
		if aerr := s.notifier.EnqueueLowStockAlert(ctx, worker.LowStockJobPayload{
			StoreID:     store.ID.String(),
			ProductName: hit.productName,
			Remaining:   hit.remaining,
			MinQuantity: hit.minQuantity,
		}); aerr != nil {
			log.Error().Err(aerr).Str("product", hit.productName).Msg("failed to enqueue low stock alert")
		}
	}
}

func (s *saleService) Get(ctx context.Context, saleID, storeID, userID uuid.UUID) (*dto.SaleResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	sale, err := s.sales.FindByID(ctx, saleID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("sale not found")
		}
		return nil, err
	}
	return saleToResponse(sale, nil), nil
}

func (s *saleService) List(ctx context.Context, storeID, userID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	sales, total, err := s.sales.List(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleListResponse{
		Data:  make([]dto.SaleResponse, 0, len(sales)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range sales {
		resp.Data = append(resp.Data, *saleToResponse(&sales[i], nil))
	}
	return resp, nil
}

// saleToResponse maps a sale to its DTO. Product names come from the names
// map when set (fresh creation), otherwise from the preloaded association.
func saleToResponse(s *model.Sale, names map[uuid.UUID]string) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:        s.ID.String(),
		StoreID:   s.StoreID.String(),
		TillID:    s.TillID.String(),
		UserID:    s.UserID.String(),
		Total:     s.Total,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		Lines:     make([]dto.SaleLineResponse, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		name := names[l.ProductID]
		if name == "" && l.Product != nil {
			name = l.Product.Name
		}
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ProductID: l.ProductID.String(),
			Product:   name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
