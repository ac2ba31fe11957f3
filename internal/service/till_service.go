package service

import (
	"context"
	"errors"
	"time"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TillService interface {
	Open(ctx context.Context, storeID, userID uuid.UUID, req dto.OpenTillRequest) (*dto.TillResponse, error)
	Close(ctx context.Context, tillID, userID uuid.UUID, req dto.CloseTillRequest) (*dto.TillResponse, error)
	Get(ctx context.Context, tillID, userID uuid.UUID) (*dto.TillResponse, error)
	ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]dto.TillResponse, error)
	// FindOpen resolves the open till for a store; called by the sale and
	// expense services.
	FindOpen(ctx context.Context, storeID uuid.UUID) (*model.Till, error)
}

type tillService struct {
	repo   repository.TillRepository
	access AccessService
}

func NewTillService(repo repository.TillRepository, access AccessService) TillService {
	return &tillService{repo: repo, access: access}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *tillService) Open(ctx context.Context, storeID, userID uuid.UUID, req dto.OpenTillRequest) (*dto.TillResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}

	// Guard: at most one open till per store. The partial unique index on
	// tills(store_id) WHERE status='open' closes the race between the check
	// and the insert — a concurrent loser gets a duplicate-key error.
	if _, err := s.repo.FindOpenByStore(ctx, storeID); err == nil {
		return nil, apierror.Conflict("a till is already open for this store")
	}

	till := &model.Till{
		StoreID:        storeID,
		OpenedByID:     userID,
		Shift:          req.Shift,
		OpeningBalance: req.OpeningBalance,
		Status:         model.TillOpen,
		OpenedAt:       time.Now(),
	}
	if err := s.repo.Create(ctx, till); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("a till is already open for this store")
		}
		return nil, err
	}

	return tillToResponse(till), nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// One-way transition. Closing stamps the balance and close time exactly once;
// there is no reopening.

func (s *tillService) Close(ctx context.Context, tillID, userID uuid.UUID, req dto.CloseTillRequest) (*dto.TillResponse, error) {
	till, err := s.findVisible(ctx, tillID, userID)
	if err != nil {
		return nil, err
	}

	if till.Status == model.TillClosed {
		return nil, apierror.Precondition("till is already closed")
	}
	if req.ClosingBalance == nil {
		return nil, apierror.Validation("closing balance is required")
	}
	if req.ClosingBalance.IsNegative() {
		return nil, apierror.Validation("closing balance must not be negative")
	}

	now := time.Now()
	till.ClosingBalance = req.ClosingBalance
	till.ClosedAt = &now
	till.Status = model.TillClosed

	if err := s.repo.Update(ctx, till); err != nil {
		return nil, err
	}
	return tillToResponse(till), nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *tillService) Get(ctx context.Context, tillID, userID uuid.UUID) (*dto.TillResponse, error) {
	till, err := s.findVisible(ctx, tillID, userID)
	if err != nil {
		return nil, err
	}
	return tillToResponse(till), nil
}

func (s *tillService) ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]dto.TillResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	tills, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TillResponse, 0, len(tills))
	for i := range tills {
		resp = append(resp, *tillToResponse(&tills[i]))
	}
	return resp, nil
}

func (s *tillService) FindOpen(ctx context.Context, storeID uuid.UUID) (*model.Till, error) {
	till, err := s.repo.FindOpenByStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Precondition("no open till for this store")
		}
		return nil, err
	}
	return till, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// findVisible loads a till and verifies its store is visible to the user.
func (s *tillService) findVisible(ctx context.Context, tillID, userID uuid.UUID) (*model.Till, error) {
	till, err := s.repo.FindByID(ctx, tillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("till not found")
		}
		return nil, err
	}
	if _, err := s.access.ResolveStore(ctx, till.StoreID, userID); err != nil {
		return nil, apierror.NotFound("till not found")
	}
	return till, nil
}

func tillToResponse(t *model.Till) *dto.TillResponse {
	resp := &dto.TillResponse{
		ID:             t.ID.String(),
		StoreID:        t.StoreID.String(),
		OpenedByID:     t.OpenedByID.String(),
		Shift:          t.Shift,
		OpeningBalance: t.OpeningBalance,
		ClosingBalance: t.ClosingBalance,
		Status:         t.Status,
		OpenedAt:       t.OpenedAt.Format(time.RFC3339),
	}
	if t.ClosedAt != nil {
		closed := t.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}
