package models

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategorySummary aggregates the stock held in one category.
type CategorySummary struct {
	ID       uint   `gorm:"column:id"`
	Name     string `gorm:"column:nombre"`
	Products int64  `gorm:"column:productos"`
	Units    int64  `gorm:"column:unidades"`
}

// AverageUnits is the mean quantity per product, rounded to two places.
func (s CategorySummary) AverageUnits() decimal.Decimal {
	if s.Products == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.Units).
		Div(decimal.NewFromInt(s.Products)).
		Round(2)
}

// CategorySummaries returns one row per category, including empty ones,
// ordered by category name.
func (r *ProductsRepository) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	if err := r.db.WithContext(ctx).
		Table("categorias AS c").
		Select("c.id, c.nombre, COUNT(p.id) AS productos, COALESCE(SUM(p.cantidad), 0) AS unidades").
		Joins("LEFT JOIN productos p ON p.categoria_id = c.id").
		Group("c.id, c.nombre").
		Order("c.nombre").
		Scan(&rows).Error; err != nil {
		return nil, newStoreError("CategorySummaries", "category", 0, err)
	}
	return rows, nil
}
