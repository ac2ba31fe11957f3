package service

import (
	"context"
	"errors"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessService is the tenant boundary resolver: every store-scoped operation
// goes through ResolveStore with an explicit store id — there is no ambient
// "active store" bound to session state.
type AccessService interface {
	// ResolveStore loads the store and verifies the acting user is its owner
	// or one of its employees. A store that exists but is not visible to the
	// user is indistinguishable from one that does not exist.
	ResolveStore(ctx context.Context, storeID, userID uuid.UUID) (*model.Store, error)
}

type accessService struct {
	stores repository.StoreRepository
}

func NewAccessService(stores repository.StoreRepository) AccessService {
	return &accessService{stores: stores}
}

func (s *accessService) ResolveStore(ctx context.Context, storeID, userID uuid.UUID) (*model.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("store not found")
		}
		return nil, err
	}

	if store.OwnerID == userID {
		return store, nil
	}

	emp, err := s.stores.FindEmployeeByUser(ctx, userID)
	if err == nil && emp != nil && emp.StoreID == storeID {
		return store, nil
	}

	return nil, apierror.NotFound("store not found")
}
