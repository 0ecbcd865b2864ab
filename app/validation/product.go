// Package validation checks submitted product forms.
package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/softura/inventario/models"
)

const (
	MsgNameTooShort    = "El nombre del producto debe tener al menos 3 caracteres"
	MsgInvalidQuantity = "La cantidad debe ser un número entero positivo"
	MsgInvalidCategory = "Debe seleccionar una categoría válida"
)

// productFields mirrors the product form. "number" accepts ASCII digits only,
// so a sign or a decimal point is rejected.
type productFields struct {
	Name       string `validate:"required,min=3"`
	Quantity   string `validate:"required,number"`
	CategoryID string `validate:"required,number"`
}

var messages = map[string]string{
	"Name":       MsgNameTooShort,
	"Quantity":   MsgInvalidQuantity,
	"CategoryID": MsgInvalidCategory,
}

var validate = validator.New()

// Clean trims surrounding whitespace and normalizes s to NFC so that
// visually identical names are stored identically.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateProductFields returns one message per invalid field, in form order.
// Every field is checked; an empty result means the input is valid.
// The category is only checked for shape, not for existence.
func ValidateProductFields(name, quantity, categoryID string) []string {
	fields := productFields{
		Name:       Clean(name),
		Quantity:   Clean(quantity),
		CategoryID: Clean(categoryID),
	}

	failed := map[string]bool{}
	if err := validate.Struct(fields); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				failed[fe.Field()] = true
			}
		}
	}

	// Digits only, bounded by the INT range of productos.cantidad
	// (2147483647 on MySQL and Postgres).
	if !failed["Quantity"] {
		if _, err := strconv.ParseInt(fields.Quantity, 10, 32); err != nil {
			failed["Quantity"] = true
		}
	}
	if !failed["CategoryID"] {
		if _, err := strconv.ParseUint(fields.CategoryID, 10, 32); err != nil {
			failed["CategoryID"] = true
		}
	}

	errs := []string{}
	for _, field := range []string{"Name", "Quantity", "CategoryID"} {
		if failed[field] {
			errs = append(errs, messages[field])
		}
	}
	return errs
}

// ParseProduct validates the raw form values and, when they are valid,
// returns the product they describe.
func ParseProduct(name, quantity, categoryID string) (models.Product, []string) {
	if errs := ValidateProductFields(name, quantity, categoryID); len(errs) > 0 {
		return models.Product{}, errs
	}

	qty, _ := strconv.Atoi(Clean(quantity))
	cat, _ := strconv.ParseUint(Clean(categoryID), 10, 32)
	return models.Product{
		Name:       Clean(name),
		Quantity:   qty,
		CategoryID: uint(cat),
	}, nil
}
