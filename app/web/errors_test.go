package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/softura/inventario/app/validation"
	"github.com/softura/inventario/models"
)

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
		status   int
	}{
		{name: "not found", err: models.ErrProductNotFound, expected: MsgProductNotFound, status: http.StatusNotFound},
		{name: "missing category", err: fmt.Errorf("insert: %w", models.ErrCategoryNotFound), expected: validation.MsgInvalidCategory, status: http.StatusInternalServerError},
		{name: "unavailable", err: fmt.Errorf("query: %w", models.ErrStorageUnavailable), expected: MsgUnavailable, status: http.StatusServiceUnavailable},
		{name: "raw driver text is hidden", err: errors.New("Error 1146: Table 'softura_productos.productos' doesn't exist"), expected: "Error al crear el producto", status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UserMessage(tc.err, "Error al crear el producto"))
			assert.Equal(t, tc.status, StatusFor(tc.err))
		})
	}
}
