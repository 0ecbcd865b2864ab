package categories

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/softura/inventario/app/web"
	"github.com/softura/inventario/models"
)

type CategoryResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Products     int64           `json:"products"`
	Units        int64           `json:"units"`
	AverageUnits decimal.Decimal `json:"average_units"`
}

type CategoryProvider interface {
	CategorySummaries(ctx context.Context) ([]models.CategorySummary, error)
}

type CategoryHandler struct {
	repo CategoryProvider
	view *web.Renderer
	log  *slog.Logger
}

func NewCategoryHandler(r CategoryProvider, view *web.Renderer, log *slog.Logger) *CategoryHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CategoryHandler{repo: r, view: view, log: log}
}

// HandleSummary shows the stock held in each category. Clients asking for
// application/json get the same figures as JSON.
func (h *CategoryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	wantsJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	summaries, err := h.repo.CategorySummaries(r.Context())
	if err != nil {
		h.log.Error("failed to summarize categories", "error", err)
		message := web.UserMessage(err, "No se pudo cargar el resumen de categorías")
		if wantsJSON {
			http.Error(w, message, web.StatusFor(err))
			return
		}
		h.view.Error(w, r, web.StatusFor(err), message)
		return
	}

	if !wantsJSON {
		h.view.Render(w, r, http.StatusOK, "categorias", web.Data{"resumen": summaries})
		return
	}

	response := make([]CategoryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = CategoryResponse{
			ID:           s.ID,
			Name:         s.Name,
			Products:     s.Products,
			Units:        s.Units,
			AverageUnits: s.AverageUnits(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Debug("failed to write category summary", "error", err)
	}
}
