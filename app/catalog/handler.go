package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/softura/inventario/app/validation"
	"github.com/softura/inventario/app/web"
	"github.com/softura/inventario/models"
)

type ProductProvider interface {
	ListProducts(ctx context.Context) ([]models.ProductRow, error)
	SearchProducts(ctx context.Context, term string) ([]models.ProductRow, error)
}

type CatalogHandler struct {
	repo ProductProvider
	view *web.Renderer
	log  *slog.Logger
}

func NewCatalogHandler(r ProductProvider, view *web.Renderer, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{
		repo: r,
		view: view,
		log:  log,
	}
}

// HandleList shows every product, newest first.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.log.Error("failed to list products", "error", err)
		h.view.Error(w, r, web.StatusFor(err), web.UserMessage(err, "No se pudo cargar la lista de productos"))
		return
	}

	h.view.Render(w, r, http.StatusOK, "index", web.Data{
		"productos": products,
	})
}

// HandleSearchForm shows the empty search form.
func (h *CatalogHandler) HandleSearchForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "buscar", web.Data{
		"productos": []models.ProductRow{},
		"termino":   "",
	})
}

// HandleSearch matches the submitted term against product and category names.
// The term is normalized like stored names. A blank term renders no results
// without querying the store.
func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	term := validation.Clean(r.PostFormValue("termino"))

	products := []models.ProductRow{}
	if term != "" {
		found, err := h.repo.SearchProducts(r.Context(), term)
		if err != nil {
			h.log.Error("failed to search products", "term", term, "error", err)
			h.view.Error(w, r, web.StatusFor(err), web.UserMessage(err, "No se pudo completar la búsqueda"))
			return
		}
		products = found
	}

	h.view.Render(w, r, http.StatusOK, "buscar", web.Data{
		"productos": products,
		"termino":   term,
	})
}
