package web

import (
	"errors"
	"net/http"

	"github.com/softura/inventario/app/validation"
	"github.com/softura/inventario/models"
)

const (
	MsgProductNotFound = "Producto no encontrado"
	MsgUnavailable     = "La base de datos no está disponible, intente nuevamente"
	MsgInternal        = "Ocurrió un error inesperado"
	MsgPageNotFound    = "Página no encontrada"
)

// UserMessage maps a storage error to text that is safe to show.
// fallback is used for failures that carry no more specific meaning.
func UserMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		return MsgProductNotFound
	case errors.Is(err, models.ErrCategoryNotFound):
		return validation.MsgInvalidCategory
	case errors.Is(err, models.ErrStorageUnavailable):
		return MsgUnavailable
	default:
		return fallback
	}
}

// StatusFor picks the HTTP status for a storage error shown as an error page.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
