package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
	"github.com/DanielCanisOrtega/tienda-backend/internal/worker"
)

// ── In-memory StoreRepository ────────────────────────────────────────────────

type stubStoreRepo struct {
	stores    map[uuid.UUID]*model.Store
	employees map[uuid.UUID]*model.Employee // keyed by user id
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{
		stores:    make(map[uuid.UUID]*model.Store),
		employees: make(map[uuid.UUID]*model.Employee),
	}
}

func (r *stubStoreRepo) Create(_ context.Context, s *model.Store) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.stores[s.ID] = s
	return nil
}

func (r *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStoreRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Store, error) {
	var out []model.Store
	for _, s := range r.stores {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubStoreRepo) Update(_ context.Context, s *model.Store) error {
	r.stores[s.ID] = s
	return nil
}

func (r *stubStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.stores, id)
	return nil
}

func (r *stubStoreRepo) AddEmployee(_ context.Context, e *model.Employee) error {
	if _, taken := r.employees[e.UserID]; taken {
		return gorm.ErrDuplicatedKey
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.employees[e.UserID] = e
	return nil
}

func (r *stubStoreRepo) FindEmployeeByUser(_ context.Context, userID uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubStoreRepo) ListEmployees(_ context.Context, storeID uuid.UUID) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		if e.StoreID == storeID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubStoreRepo) RemoveEmployee(_ context.Context, storeID, userID uuid.UUID) error {
	e, ok := r.employees[userID]
	if !ok || e.StoreID != storeID {
		return gorm.ErrRecordNotFound
	}
	delete(r.employees, userID)
	return nil
}

var _ repository.StoreRepository = (*stubStoreRepo)(nil)

// ── In-memory UserRepository ─────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── In-memory ProductRepository ──────────────────────────────────────────────

type stubProductRepo struct {
	products  map[uuid.UUID]*model.Product
	saleLined map[uuid.UUID]bool // products referenced by at least one sale line
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:  make(map[uuid.UUID]*model.Product),
		saleLined: make(map[uuid.UUID]bool),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByIDForStore(_ context.Context, id, storeID uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, storeID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.StoreID != storeID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListAvailable(_ context.Context, storeID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.StoreID == storeID && p.QuantityOnHand > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.QuantityOnHand = quantity
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) HasSaleLines(_ context.Context, id uuid.UUID) (bool, error) {
	return r.saleLined[id], nil
}

func (r *stubProductRepo) FindByIDForStoreTx(_ *gorm.DB, id, storeID uuid.UUID) (*model.Product, error) {
	return r.FindByIDForStore(context.Background(), id, storeID)
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, quantity int) (int64, error) {
	p, ok := r.products[id]
	if !ok || p.QuantityOnHand < quantity {
		return 0, nil
	}
	p.QuantityOnHand -= quantity
	return 1, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── In-memory TillRepository ─────────────────────────────────────────────────

type stubTillRepo struct {
	tills map[uuid.UUID]*model.Till
	// failNextCreate simulates the partial-unique-index loser in an
	// open-till race.
	failNextCreate bool
}

func newStubTillRepo() *stubTillRepo {
	return &stubTillRepo{tills: make(map[uuid.UUID]*model.Till)}
}

func (r *stubTillRepo) Create(_ context.Context, t *model.Till) error {
	if r.failNextCreate {
		r.failNextCreate = false
		return gorm.ErrDuplicatedKey
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tills[t.ID] = t
	return nil
}

func (r *stubTillRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Till, error) {
	t, ok := r.tills[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTillRepo) FindOpenByStore(_ context.Context, storeID uuid.UUID) (*model.Till, error) {
	for _, t := range r.tills {
		if t.StoreID == storeID && t.Status == model.TillOpen {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTillRepo) Update(_ context.Context, t *model.Till) error {
	r.tills[t.ID] = t
	return nil
}

func (r *stubTillRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]model.Till, error) {
	var out []model.Till
	for _, t := range r.tills {
		if t.StoreID == storeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

var _ repository.TillRepository = (*stubTillRepo)(nil)

// ── In-memory SaleRepository ─────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Lines {
		if s.Lines[i].ID == uuid.Nil {
			s.Lines[i].ID = uuid.New()
		}
		s.Lines[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id, storeID uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, storeID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.StoreID == storeID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── In-memory ExpenseRepository ──────────────────────────────────────────────

type stubExpenseRepo struct {
	expenses []model.Expense
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *stubExpenseRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if e.StoreID == storeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) SumByCategory(_ context.Context, storeID uuid.UUID) ([]dto.CategoryTotal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, e := range r.expenses {
		if e.StoreID == storeID {
			sums[e.Category] = sums[e.Category].Add(e.Amount)
		}
	}
	var out []dto.CategoryTotal
	for cat, total := range sums {
		out = append(out, dto.CategoryTotal{Category: cat, Total: total})
	}
	return out, nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// ── In-memory StockMovementRepository ────────────────────────────────────────

type stubMovementRepo struct {
	movements      []model.StockMovement
	failNextCreate error
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if r.failNextCreate != nil {
		err := r.failNextCreate
		r.failNextCreate = nil
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Notifier recorder ────────────────────────────────────────────────────────

type recorderNotifier struct {
	emails []worker.EmailJobPayload
	alerts []worker.LowStockJobPayload
}

func (n *recorderNotifier) EnqueueReceiptEmail(_ context.Context, p worker.EmailJobPayload) error {
	n.emails = append(n.emails, p)
	return nil
}

func (n *recorderNotifier) EnqueueLowStockAlert(_ context.Context, p worker.LowStockJobPayload) error {
	n.alerts = append(n.alerts, p)
	return nil
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedOwnerAndStore(stores *stubStoreRepo) (uuid.UUID, *model.Store) {
	ownerID := uuid.New()
	store := &model.Store{
		ID:      uuid.New(),
		Name:    "La Esquina",
		Address: "Calle 10 #5-23",
		OwnerID: ownerID,
	}
	stores.stores[store.ID] = store
	return ownerID, store
}

func seedProduct(repo *stubProductRepo, storeID uuid.UUID, name string, price float64, qty, minQty int) *model.Product {
	p := &model.Product{
		ID:             uuid.New(),
		StoreID:        storeID,
		Name:           name,
		Category:       "test",
		UnitPrice:      decimal.NewFromFloat(price),
		QuantityOnHand: qty,
		MinQuantity:    minQty,
	}
	repo.products[p.ID] = p
	return p
}

func seedOpenTill(repo *stubTillRepo, storeID, userID uuid.UUID) *model.Till {
	t := &model.Till{
		ID:             uuid.New(),
		StoreID:        storeID,
		OpenedByID:     userID,
		Shift:          model.ShiftMorning,
		OpeningBalance: decimal.NewFromInt(100),
		Status:         model.TillOpen,
		OpenedAt:       time.Now(),
	}
	repo.tills[t.ID] = t
	return t
}
