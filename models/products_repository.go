package models

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Inventory is the storage contract the web handlers depend on.
type Inventory interface {
	ListProducts(ctx context.Context) ([]ProductRow, error)
	SearchProducts(ctx context.Context, term string) ([]ProductRow, error)
	GetProduct(ctx context.Context, id uint) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id uint) (int64, error)
	GetAllCategories(ctx context.Context) ([]Category, error)
	CategorySummaries(ctx context.Context) ([]CategorySummary, error)
	WithTx(ctx context.Context, fn func(Inventory) error) error
	Ping(ctx context.Context) error
}

type ProductsRepository struct {
	db *gorm.DB
}

var _ Inventory = (*ProductsRepository)(nil)

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// joined selects products with their category name. The inner join drops
// products whose category no longer exists.
func (r *ProductsRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("productos AS p").
		Select("p.id, p.nombre, p.cantidad, c.nombre AS categoria").
		Joins("INNER JOIN categorias c ON p.categoria_id = c.id")
}

// ListProducts returns every product, newest first.
func (r *ProductsRepository) ListProducts(ctx context.Context) ([]ProductRow, error) {
	var rows []ProductRow
	if err := r.joined(ctx).Order("p.id DESC").Scan(&rows).Error; err != nil {
		return nil, newStoreError("ListProducts", "product", 0, err)
	}
	return rows, nil
}

// SearchProducts returns the products whose name or category name contains
// term, ignoring case, newest first. A blank term matches nothing and does
// not reach the database.
func (r *ProductsRepository) SearchProducts(ctx context.Context, term string) ([]ProductRow, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []ProductRow{}, nil
	}

	// Both sides are folded by the database so they agree on non-ASCII letters.
	pattern := "%" + escapeLike(term) + "%"

	var rows []ProductRow
	if err := r.joined(ctx).
		Where("LOWER(p.nombre) LIKE LOWER(?) ESCAPE '!' OR LOWER(c.nombre) LIKE LOWER(?) ESCAPE '!'", pattern, pattern).
		Order("p.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, newStoreError("SearchProducts", "product", 0, err)
	}
	return rows, nil
}

// escapeLike makes LIKE metacharacters in s match literally under ESCAPE '!'.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func (r *ProductsRepository) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, newStoreError("GetProduct", "product", id, err)
	}
	return &product, nil
}

// CreateProduct inserts product and fills in its generated ID.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(product).Error
	return newStoreError("CreateProduct", "product", 0, err)
}

// UpdateProduct overwrites name, quantity and category of the row with product.ID.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	err := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"nombre":       product.Name,
			"cantidad":     product.Quantity,
			"categoria_id": product.CategoryID,
		}).Error
	return newStoreError("UpdateProduct", "product", product.ID, err)
}

// DeleteProduct removes the product with id and reports how many rows went away.
// Deleting an unknown id is not an error.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return 0, newStoreError("DeleteProduct", "product", id, res.Error)
	}
	return res.RowsAffected, nil
}

// GetAllCategories returns the categories ordered by name.
func (r *ProductsRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("nombre").Find(&categories).Error; err != nil {
		return nil, newStoreError("GetAllCategories", "category", 0, err)
	}
	return categories, nil
}

// WithTx runs fn against a repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *ProductsRepository) WithTx(ctx context.Context, fn func(Inventory) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductsRepository{db: tx})
	})
}

func (r *ProductsRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return newStoreError("Ping", "database", 0, err)
	}
	return newStoreError("Ping", "database", 0, sqlDB.PingContext(ctx))
}
