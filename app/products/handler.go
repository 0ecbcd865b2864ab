// Package products serves the create, edit and delete pages.
package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/softura/inventario/app/validation"
	"github.com/softura/inventario/app/web"
	"github.com/softura/inventario/models"
)

const (
	MsgCreated = "Producto creado exitosamente"
	MsgUpdated = "Producto actualizado exitosamente"
	MsgDeleted = "Producto eliminado exitosamente"

	msgCreateFailed = "Error al crear el producto"
	msgUpdateFailed = "Error al actualizar el producto"
	msgDeleteFailed = "Error al eliminar el producto"
)

type ProductsHandler struct {
	repo models.Inventory
	view *web.Renderer
	log  *slog.Logger
}

func NewProductsHandler(repo models.Inventory, view *web.Renderer, log *slog.Logger) *ProductsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProductsHandler{
		repo: repo,
		view: view,
		log:  log,
	}
}

// productID reads the {id} path segment. ok is false when it is not a
// non-negative integer that fits a product id.
func productID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *ProductsHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.view.Error(w, r, http.StatusNotFound, web.MsgPageNotFound)
}

// formData carries the submitted values back into a form.
func formData(r *http.Request, categories []models.Category) web.Data {
	return web.Data{
		"categorias":   categories,
		"nombre":       r.PostFormValue("nombre"),
		"cantidad":     r.PostFormValue("cantidad"),
		"categoria_id": r.PostFormValue("categoria_id"),
	}
}

// productData fills a form from a stored product.
func productData(p *models.Product, categories []models.Category) web.Data {
	return web.Data{
		"producto":     p,
		"categorias":   categories,
		"nombre":       p.Name,
		"cantidad":     strconv.Itoa(p.Quantity),
		"categoria_id": strconv.FormatUint(uint64(p.CategoryID), 10),
	}
}

func (h *ProductsHandler) categories(w http.ResponseWriter, r *http.Request) ([]models.Category, bool) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		h.log.Error("failed to load categories", "error", err)
		h.view.Error(w, r, web.StatusFor(err), web.UserMessage(err, "No se pudieron cargar las categorías"))
		return nil, false
	}
	return categories, true
}

// HandleCreateForm shows the empty create form.
func (h *ProductsHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	categories, ok := h.categories(w, r)
	if !ok {
		return
	}
	h.view.Render(w, r, http.StatusOK, "crear", web.Data{
		"categorias":   categories,
		"categoria_id": "",
	})
}

// HandleCreate validates the form and inserts the product.
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	product, errs := validation.ParseProduct(
		r.PostFormValue("nombre"),
		r.PostFormValue("cantidad"),
		r.PostFormValue("categoria_id"),
	)
	if len(errs) > 0 {
		categories, ok := h.categories(w, r)
		if !ok {
			return
		}
		h.view.Flash(w, r, web.FlashDanger, errs...)
		h.view.Render(w, r, http.StatusOK, "crear", formData(r, categories))
		return
	}

	if err := h.repo.CreateProduct(r.Context(), &product); err != nil {
		h.log.Error("failed to create product", "name", product.Name, "error", err)
		categories, ok := h.categories(w, r)
		if !ok {
			return
		}
		h.view.Flash(w, r, web.FlashDanger, web.UserMessage(err, msgCreateFailed))
		h.view.Render(w, r, http.StatusOK, "crear", web.Data{
			"categorias":   categories,
			"categoria_id": "",
		})
		return
	}

	h.log.Info("product created", "id", product.ID, "name", product.Name)
	h.view.Flash(w, r, web.FlashSuccess, MsgCreated)
	web.Redirect(w, r, "/")
}

// HandleEditForm shows the edit form filled with the stored product.
func (h *ProductsHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	var (
		product    *models.Product
		categories []models.Category
	)
	err := h.repo.WithTx(r.Context(), func(tx models.Inventory) error {
		var err error
		if product, err = tx.GetProduct(r.Context(), id); err != nil {
			return err
		}
		categories, err = tx.GetAllCategories(r.Context())
		return err
	})
	if err != nil {
		h.failAndRedirect(w, r, err, "failed to load product for edit", id, msgUpdateFailed)
		return
	}

	h.view.Render(w, r, http.StatusOK, "editar", productData(product, categories))
}

// HandleEdit validates the form and updates the product. Loading and
// updating share one transaction.
func (h *ProductsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	ctx := r.Context()

	var (
		current *models.Product
		invalid []string
	)
	err := h.repo.WithTx(ctx, func(tx models.Inventory) error {
		var err error
		if current, err = tx.GetProduct(ctx, id); err != nil {
			return err
		}

		product, errs := validation.ParseProduct(
			r.PostFormValue("nombre"),
			r.PostFormValue("cantidad"),
			r.PostFormValue("categoria_id"),
		)
		if len(errs) > 0 {
			invalid = errs
			return nil
		}
		product.ID = id
		return tx.UpdateProduct(ctx, &product)
	})

	switch {
	case errors.Is(err, models.ErrProductNotFound):
		h.view.Flash(w, r, web.FlashDanger, web.MsgProductNotFound)
		web.Redirect(w, r, "/")
		return
	case err != nil:
		h.log.Error("failed to update product", "id", id, "error", err)
		h.view.Flash(w, r, web.FlashDanger, web.UserMessage(err, msgUpdateFailed))
		h.renderReloaded(w, r, id)
		return
	case len(invalid) > 0:
		categories, ok := h.categories(w, r)
		if !ok {
			return
		}
		data := formData(r, categories)
		data["producto"] = current
		h.view.Flash(w, r, web.FlashDanger, invalid...)
		h.view.Render(w, r, http.StatusOK, "editar", data)
		return
	}

	h.log.Info("product updated", "id", id)
	h.view.Flash(w, r, web.FlashSuccess, MsgUpdated)
	web.Redirect(w, r, "/")
}

// renderReloaded shows the edit form with the row as it is stored now,
// or goes back to the list when it cannot be read.
func (h *ProductsHandler) renderReloaded(w http.ResponseWriter, r *http.Request, id uint) {
	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.log.Warn("failed to reload product", "id", id, "error", err)
		web.Redirect(w, r, "/")
		return
	}
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		h.log.Warn("failed to reload categories", "id", id, "error", err)
		web.Redirect(w, r, "/")
		return
	}
	h.view.Render(w, r, http.StatusOK, "editar", productData(product, categories))
}

// HandleDeleteConfirm asks before deleting. It never changes data.
func (h *ProductsHandler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.failAndRedirect(w, r, err, "failed to load product for delete", id, msgDeleteFailed)
		return
	}

	h.view.Render(w, r, http.StatusOK, "eliminar", web.Data{"producto": product})
}

// HandleDelete removes the product once confirmed. A missing id still
// reports success.
func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if r.PostFormValue("confirmar") != "si" {
		web.Redirect(w, r, "/eliminar/"+strconv.FormatUint(uint64(id), 10))
		return
	}

	affected, err := h.repo.DeleteProduct(r.Context(), id)
	if err != nil {
		h.log.Error("failed to delete product", "id", id, "error", err)
		h.view.Flash(w, r, web.FlashDanger, web.UserMessage(err, msgDeleteFailed))
		web.Redirect(w, r, "/")
		return
	}

	h.log.Info("product deleted", "id", id, "rows", affected)
	h.view.Flash(w, r, web.FlashSuccess, MsgDeleted)
	web.Redirect(w, r, "/")
}

func (h *ProductsHandler) failAndRedirect(w http.ResponseWriter, r *http.Request, err error, msg string, id uint, fallback string) {
	if errors.Is(err, models.ErrProductNotFound) {
		h.log.Debug("product not found", "id", id)
	} else {
		h.log.Error(msg, "id", id, "error", err)
	}
	h.view.Flash(w, r, web.FlashDanger, web.UserMessage(err, fallback))
	web.Redirect(w, r, "/")
}
