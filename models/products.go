package models

// Product represents a stocked product.
// It includes a name, the quantity on hand and the category it belongs to.
type Product struct {
	ID         uint     `gorm:"primaryKey"`
	Name       string   `gorm:"column:nombre;size:255;not null"`
	Quantity   int      `gorm:"column:cantidad;not null"`
	CategoryID uint     `gorm:"column:categoria_id;not null;index"`
	Category   Category `gorm:"foreignKey:CategoryID"`
}

func (p *Product) TableName() string {
	return "productos"
}

// ProductRow is a product joined with the name of its category, as shown
// in listings and search results.
type ProductRow struct {
	ID       uint   `gorm:"column:id"`
	Name     string `gorm:"column:nombre"`
	Quantity int    `gorm:"column:cantidad"`
	Category string `gorm:"column:categoria"`
}
