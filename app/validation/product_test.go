package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/softura/inventario/models"
)

func TestValidateProductFields(t *testing.T) {
	testCases := []struct {
		name       string
		nombre     string
		cantidad   string
		categoria  string
		expectErrs []string
	}{
		{name: "valid", nombre: "Tornillo", cantidad: "100", categoria: "1", expectErrs: []string{}},
		{name: "zero quantity is valid", nombre: "Tuerca", cantidad: "0", categoria: "2", expectErrs: []string{}},
		{name: "exactly three characters", nombre: "Eje", cantidad: "1", categoria: "1", expectErrs: []string{}},
		{name: "accented name shorter than three after trim", nombre: "Té ", cantidad: "1", categoria: "1", expectErrs: []string{MsgNameTooShort}},
		{name: "multibyte name counts characters", nombre: "Ñuño", cantidad: "1", categoria: "1", expectErrs: []string{}},
		{name: "short name", nombre: "ab", cantidad: "5", categoria: "1", expectErrs: []string{MsgNameTooShort}},
		{name: "name only whitespace", nombre: "     ", cantidad: "5", categoria: "1", expectErrs: []string{MsgNameTooShort}},
		{name: "name padded to length", nombre: "  ab  ", cantidad: "5", categoria: "1", expectErrs: []string{MsgNameTooShort}},
		{name: "empty quantity", nombre: "Tornillo", cantidad: "", categoria: "1", expectErrs: []string{MsgInvalidQuantity}},
		{name: "negative quantity", nombre: "Tornillo", cantidad: "-3", categoria: "1", expectErrs: []string{MsgInvalidQuantity}},
		{name: "decimal quantity", nombre: "Tornillo", cantidad: "2.5", categoria: "1", expectErrs: []string{MsgInvalidQuantity}},
		{name: "signed quantity", nombre: "Tornillo", cantidad: "+3", categoria: "1", expectErrs: []string{MsgInvalidQuantity}},
		{name: "largest INT quantity", nombre: "Tornillo", cantidad: "2147483647", categoria: "1", expectErrs: []string{}},
		{name: "quantity past INT range", nombre: "Tornillo", cantidad: "2147483648", categoria: "1", expectErrs: []string{MsgInvalidQuantity}},
		{name: "quantity overflow", nombre: "Tornillo", cantidad: "99999999999999999999", categoria: "1", expectErrs: []string{MsgInvalidQuantity}},
		{name: "quantity with spaces trimmed", nombre: "Tornillo", cantidad: " 7 ", categoria: " 1 ", expectErrs: []string{}},
		{name: "missing category", nombre: "Tornillo", cantidad: "1", categoria: "", expectErrs: []string{MsgInvalidCategory}},
		{name: "non numeric category", nombre: "Tornillo", cantidad: "1", categoria: "abc", expectErrs: []string{MsgInvalidCategory}},
		{name: "unknown but numeric category passes", nombre: "Tornillo", cantidad: "1", categoria: "999", expectErrs: []string{}},
		{
			name:       "all fields invalid, all reported in order",
			nombre:     "x",
			cantidad:   "-1",
			categoria:  "",
			expectErrs: []string{MsgNameTooShort, MsgInvalidQuantity, MsgInvalidCategory},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateProductFields(tc.nombre, tc.cantidad, tc.categoria)
			assert.Equal(t, tc.expectErrs, errs)
		})
	}
}

func TestParseProduct(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		p, errs := ParseProduct("  Tornillo ", "100", "1")
		assert.Empty(t, errs)
		assert.Equal(t, models.Product{Name: "Tornillo", Quantity: 100, CategoryID: 1}, p)
	})

	t.Run("invalid input", func(t *testing.T) {
		p, errs := ParseProduct("ab", "5", "1")
		assert.Equal(t, []string{MsgNameTooShort}, errs)
		assert.Equal(t, models.Product{}, p)
	})

	t.Run("name normalized to NFC", func(t *testing.T) {
		p, errs := ParseProduct("Cafe\u0301", "1", "1")
		assert.Empty(t, errs)
		assert.Equal(t, "Caf\u00e9", p.Name)
	})
}
