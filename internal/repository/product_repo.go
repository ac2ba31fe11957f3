package repository

import (
	"context"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory fakes.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	// FindByIDForStore resolves a product scoped to its store; a product id
	// belonging to another store behaves exactly like an unknown id.
	FindByIDForStore(ctx context.Context, id, storeID uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, storeID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListAvailable(ctx context.Context, storeID uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// SetQuantityTx is the absolute stock adjustment (not a delta). It runs
	// inside the caller's transaction, together with the ledger entry.
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasSaleLines(ctx context.Context, id uuid.UUID) (bool, error)

	// Used inside sale transactions — callers must pass the tx instance.
	FindByIDForStoreTx(tx *gorm.DB, id, storeID uuid.UUID) (*model.Product, error)
	// DecrementStockTx performs the atomic check-and-decrement:
	// UPDATE ... SET quantity_on_hand = quantity_on_hand - q
	// WHERE id = ? AND quantity_on_hand >= q.
	// Returns the number of rows affected; zero means insufficient stock.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, quantity int) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByIDForStore(ctx context.Context, id, storeID uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, storeID).First(&p).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, storeID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("store_id = ?", storeID)

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListAvailable(ctx context.Context, storeID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND quantity_on_hand > 0", storeID).
		Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).Update("quantity_on_hand", quantity).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) HasSaleLines(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleLine{}).
		Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) FindByIDForStoreTx(tx *gorm.DB, id, storeID uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Where("id = ? AND store_id = ?", id, storeID).First(&p).Error
	return &p, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, quantity int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity_on_hand >= ?", id, quantity).
		Update("quantity_on_hand", gorm.Expr("quantity_on_hand - ?", quantity))
	return res.RowsAffected, res.Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
