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

type StoreService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateStoreRequest) (*dto.StoreResponse, error)
	Get(ctx context.Context, storeID, userID uuid.UUID) (*dto.StoreResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.StoreResponse, error)
	Update(ctx context.Context, storeID, userID uuid.UUID, req dto.UpdateStoreRequest) (*dto.StoreResponse, error)
	Delete(ctx context.Context, storeID, userID uuid.UUID) error

	AddEmployee(ctx context.Context, storeID, ownerID uuid.UUID, req dto.AddEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context, storeID, userID uuid.UUID) ([]dto.EmployeeResponse, error)
	RemoveEmployee(ctx context.Context, storeID, ownerID, employeeUserID uuid.UUID) error
}

type storeService struct {
	stores repository.StoreRepository
	users  repository.UserRepository
	access AccessService
}

func NewStoreService(stores repository.StoreRepository, users repository.UserRepository, access AccessService) StoreService {
	return &storeService{stores: stores, users: users, access: access}
}

func (s *storeService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	store := &model.Store{
		Name:    req.Name,
		Address: req.Address,
		OwnerID: ownerID,
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	return storeToResponse(store, nil), nil
}

func (s *storeService) Get(ctx context.Context, storeID, userID uuid.UUID) (*dto.StoreResponse, error) {
	store, err := s.access.ResolveStore(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	employees, err := s.stores.ListEmployees(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return storeToResponse(store, employees), nil
}

func (s *storeService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.StoreResponse, error) {
	stores, err := s.stores.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(stores)+1)
	for i := range stores {
		out = append(out, *storeToResponse(&stores[i], nil))
	}

	// A user employed at someone else's store sees that store too.
	if emp, err := s.stores.FindEmployeeByUser(ctx, userID); err == nil {
		if employer, ferr := s.stores.FindByID(ctx, emp.StoreID); ferr == nil && employer.OwnerID != userID {
			out = append(out, *storeToResponse(employer, nil))
		}
	}
	return out, nil
}

func (s *storeService) Update(ctx context.Context, storeID, userID uuid.UUID, req dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := s.findOwned(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		store.Name = req.Name
	}
	if req.Address != "" {
		store.Address = req.Address
	}
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}
	return storeToResponse(store, nil), nil
}

func (s *storeService) Delete(ctx context.Context, storeID, userID uuid.UUID) error {
	store, err := s.findOwned(ctx, storeID, userID)
	if err != nil {
		return err
	}
	return s.stores.Delete(ctx, store.ID)
}

// AddEmployee hires a user into the store. Only the owner may hire, and a
// user already employed anywhere cannot be hired again.
func (s *storeService) AddEmployee(ctx context.Context, storeID, ownerID uuid.UUID, req dto.AddEmployeeRequest) (*dto.EmployeeResponse, error) {
	store, err := s.findOwned(ctx, storeID, ownerID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apierror.Validation("invalid user id")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("user not found")
		}
		return nil, err
	}
	if _, err := s.stores.FindEmployeeByUser(ctx, userID); err == nil {
		return nil, apierror.Conflict("user is already employed at a store")
	}

	emp := &model.Employee{
		UserID:  user.ID,
		StoreID: store.ID,
		HiredAt: time.Now(),
	}
	if err := s.stores.AddEmployee(ctx, emp); err != nil {
		// Unique index on user_id closes the check/insert race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("user is already employed at a store")
		}
		return nil, err
	}
	return &dto.EmployeeResponse{
		ID:       emp.ID.String(),
		UserID:   user.ID.String(),
		Username: user.Username,
		HiredAt:  emp.HiredAt.Format(time.RFC3339),
	}, nil
}

func (s *storeService) ListEmployees(ctx context.Context, storeID, userID uuid.UUID) ([]dto.EmployeeResponse, error) {
	if _, err := s.access.ResolveStore(ctx, storeID, userID); err != nil {
		return nil, err
	}
	employees, err := s.stores.ListEmployees(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return employeesToResponse(employees), nil
}

func (s *storeService) RemoveEmployee(ctx context.Context, storeID, ownerID, employeeUserID uuid.UUID) error {
	if _, err := s.findOwned(ctx, storeID, ownerID); err != nil {
		return err
	}
	if err := s.stores.RemoveEmployee(ctx, storeID, employeeUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("employee not found")
		}
		return err
	}
	return nil
}

// findOwned resolves a store only for its owner. Employees can read a store
// but never manage it.
func (s *storeService) findOwned(ctx context.Context, storeID, userID uuid.UUID) (*model.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil || store.OwnerID != userID {
		return nil, apierror.NotFound("store not found")
	}
	return store, nil
}

func storeToResponse(st *model.Store, employees []model.Employee) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        st.ID.String(),
		Name:      st.Name,
		Address:   st.Address,
		OwnerID:   st.OwnerID.String(),
		Employees: employeesToResponse(employees),
	}
}

func employeesToResponse(employees []model.Employee) []dto.EmployeeResponse {
	if len(employees) == 0 {
		return nil
	}
	out := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		username := ""
		if e.User != nil {
			username = e.User.Username
		}
		out = append(out, dto.EmployeeResponse{
			ID:       e.ID.String(),
			UserID:   e.UserID.String(),
			Username: username,
			HiredAt:  e.HiredAt.Format(time.RFC3339),
		})
	}
	return out
}
