// Package modelstest provides an in-memory models.Inventory for handler tests.
package modelstest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/softura/inventario/models"
)

// Inventory is an in-memory models.Inventory. Errors set in the Err* fields
// are returned by the matching operation instead of touching the data.
type Inventory struct {
	mu         sync.Mutex
	categories []models.Category
	products   []models.Product
	nextID     uint

	ListErr     error
	SearchErr   error
	GetErr      error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	CategoryErr error
	SummaryErr  error
	PingErr     error

	SearchCalls int
	LastSearch  string
	Commits     int
	Rollbacks   int
}

var _ models.Inventory = (*Inventory)(nil)

// New returns an Inventory holding the given categories and products.
// Products without an ID get one assigned in order.
func New(categories []models.Category, products ...models.Product) *Inventory {
	inv := &Inventory{
		categories: append([]models.Category(nil), categories...),
		nextID:     1,
	}
	for _, p := range products {
		if p.ID == 0 {
			p.ID = inv.nextID
		}
		if p.ID >= inv.nextID {
			inv.nextID = p.ID + 1
		}
		inv.products = append(inv.products, p)
	}
	return inv
}

// DefaultCategories returns categories 1..3 named Ferretería, Electricidad, Plomería.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Ferretería"},
		{ID: 2, Name: "Electricidad"},
		{ID: 3, Name: "Plomería"},
	}
}

// Products returns a copy of the stored products in insertion order.
func (f *Inventory) Products() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...)
}

func (f *Inventory) categoryName(id uint) (string, bool) {
	for _, c := range f.categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

func (f *Inventory) rows(match func(models.ProductRow) bool) []models.ProductRow {
	rows := []models.ProductRow{}
	for _, p := range f.products {
		name, ok := f.categoryName(p.CategoryID)
		if !ok {
			continue
		}
		row := models.ProductRow{ID: p.ID, Name: p.Name, Quantity: p.Quantity, Category: name}
		if match == nil || match(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows
}

func (f *Inventory) ListProducts(ctx context.Context) ([]models.ProductRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.rows(nil), nil
}

func (f *Inventory) SearchProducts(ctx context.Context, term string) ([]models.ProductRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SearchCalls++
	f.LastSearch = term
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.ProductRow{}, nil
	}
	return f.rows(func(r models.ProductRow) bool {
		return strings.Contains(strings.ToLower(r.Name), term) ||
			strings.Contains(strings.ToLower(r.Category), term)
	}), nil
}

func (f *Inventory) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	for _, p := range f.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (f *Inventory) CreateProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if _, ok := f.categoryName(product.CategoryID); !ok {
		return models.ErrCategoryNotFound
	}
	product.ID = f.nextID
	f.nextID++
	f.products = append(f.products, *product)
	return nil
}

func (f *Inventory) UpdateProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if _, ok := f.categoryName(product.CategoryID); !ok {
		return models.ErrCategoryNotFound
	}
	for i, p := range f.products {
		if p.ID == product.ID {
			f.products[i].Name = product.Name
			f.products[i].Quantity = product.Quantity
			f.products[i].CategoryID = product.CategoryID
		}
	}
	return nil
}

func (f *Inventory) DeleteProduct(ctx context.Context, id uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return 0, f.DeleteErr
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *Inventory) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CategoryErr != nil {
		return nil, f.CategoryErr
	}
	categories := append([]models.Category(nil), f.categories...)
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (f *Inventory) CategorySummaries(ctx context.Context) ([]models.CategorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SummaryErr != nil {
		return nil, f.SummaryErr
	}
	summaries := make([]models.CategorySummary, 0, len(f.categories))
	for _, c := range f.categories {
		s := models.CategorySummary{ID: c.ID, Name: c.Name}
		for _, p := range f.products {
			if p.CategoryID == c.ID {
				s.Products++
				s.Units += int64(p.Quantity)
			}
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// WithTx restores the products held before fn ran when fn fails.
func (f *Inventory) WithTx(ctx context.Context, fn func(models.Inventory) error) error {
	f.mu.Lock()
	snapshot := append([]models.Product(nil), f.products...)
	nextID := f.nextID
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.products = snapshot
		f.nextID = nextID
		f.Rollbacks++
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.Commits++
	f.mu.Unlock()
	return nil
}

func (f *Inventory) Ping(ctx context.Context) error {
	return f.PingErr
}
