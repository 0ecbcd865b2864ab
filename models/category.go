package models

// Category represents a product category.
// Categories are read-only for the application; they are seeded externally
// or through the init-db command.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:nombre;size:100;not null"`
}

func (c *Category) TableName() string {
	return "categorias"
}

// DefaultCategories are inserted by SeedCategories into an empty store.
var DefaultCategories = []string{
	"Ferretería",
	"Electricidad",
	"Plomería",
	"Pinturas",
	"Herramientas",
}
