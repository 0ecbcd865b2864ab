package products

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softura/inventario/app/validation"
	"github.com/softura/inventario/app/web"
	"github.com/softura/inventario/models"
	"github.com/softura/inventario/models/modelstest"
)

func newStockedInventory() *modelstest.Inventory {
	return modelstest.New(modelstest.DefaultCategories(),
		models.Product{ID: 1, Name: "Tornillo", Quantity: 100, CategoryID: 1},
		models.Product{ID: 2, Name: "Foco LED", Quantity: 20, CategoryID: 2},
	)
}

func TestHandleEditForm(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		mockRepoSetup      func() *modelstest.Inventory
		expectedStatusCode int
		checkResponse      func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Success",
			id:                 "1",
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				body := rec.Body.String()
				assert.Contains(t, body, `action="/editar/1"`)
				assert.Contains(t, body, `value="Tornillo"`)
				assert.Contains(t, body, `value="100"`)
				assert.Contains(t, body, `<option value="1" selected>Ferretería</option>`)
			},
		},
		{
			name:               "Product not found",
			id:                 "999",
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "/", rec.Header().Get("Location"))
				assert.Contains(t, followRedirect(t, view, rec), alert(web.FlashDanger, web.MsgProductNotFound))
			},
		},
		{
			name:               "Id out of range",
			id:                 "99999999999",
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Id not numeric",
			id:                 "abc",
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name: "Database unavailable",
			id:   "1",
			mockRepoSetup: func() *modelstest.Inventory {
				repo := newStockedInventory()
				repo.GetErr = models.ErrStorageUnavailable
				return repo
			},
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				assert.Contains(t, followRedirect(t, view, rec), alert(web.FlashDanger, web.MsgUnavailable))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler, view := newTestHandler(t, tc.mockRepoSetup())
			req := withID(httptest.NewRequest(http.MethodGet, "/editar/"+tc.id, nil), tc.id)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleEditForm(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, view, rec)
			}
		})
	}
}

func TestHandleEdit(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		form               url.Values
		mockRepoSetup      func() *modelstest.Inventory
		expectedStatusCode int
		checkResponse      func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *modelstest.Inventory)
	}{
		{
			name:               "Success updates only the target row",
			id:                 "1",
			form:               url.Values{"nombre": {"Tornillo 1/4"}, "cantidad": {"80"}, "categoria_id": {"3"}},
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "/", rec.Header().Get("Location"))
				assert.Contains(t, followRedirect(t, view, rec), alert(web.FlashSuccess, MsgUpdated))
			},
			checkRepoCall: func(t *testing.T, repo *modelstest.Inventory) {
				products := repo.Products()
				require.Len(t, products, 2)
				assert.Equal(t, models.Product{ID: 1, Name: "Tornillo 1/4", Quantity: 80, CategoryID: 3}, products[0])
				assert.Equal(t, models.Product{ID: 2, Name: "Foco LED", Quantity: 20, CategoryID: 2}, products[1])
				assert.Equal(t, 1, repo.Commits)
			},
		},
		{
			name:               "Invalid input keeps the row and the submitted values",
			id:                 "1",
			form:               url.Values{"nombre": {"ab"}, "cantidad": {"1.5"}, "categoria_id": {"1"}},
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				body := rec.Body.String()
				assert.Contains(t, body, alert(web.FlashDanger, validation.MsgNameTooShort))
				assert.Contains(t, body, alert(web.FlashDanger, validation.MsgInvalidQuantity))
				assert.Contains(t, body, `action="/editar/1"`)
				assert.Contains(t, body, `value="ab"`)
				assert.Contains(t, body, `value="1.5"`)
			},
			checkRepoCall: func(t *testing.T, repo *modelstest.Inventory) {
				assert.Equal(t, "Tornillo", repo.Products()[0].Name)
			},
		},
		{
			name:               "Product not found",
			id:                 "999",
			form:               url.Values{"nombre": {"Tornillo"}, "cantidad": {"1"}, "categoria_id": {"1"}},
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				assert.Contains(t, followRedirect(t, view, rec), alert(web.FlashDanger, web.MsgProductNotFound))
			},
			checkRepoCall: func(t *testing.T, repo *modelstest.Inventory) {
				assert.Equal(t, 1, repo.Rollbacks)
			},
		},
		{
			name: "Update error rolls back and reloads the row",
			id:   "2",
			form: url.Values{"nombre": {"Foco halógeno"}, "cantidad": {"5"}, "categoria_id": {"2"}},
			mockRepoSetup: func() *modelstest.Inventory {
				repo := newStockedInventory()
				repo.UpdateErr = errors.New("Error 1213: Deadlock found")
				return repo
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				body := rec.Body.String()
				assert.Contains(t, body, alert(web.FlashDanger, msgUpdateFailed))
				assert.Contains(t, body, `value="Foco LED"`)
				assert.NotContains(t, body, "Deadlock")
			},
			checkRepoCall: func(t *testing.T, repo *modelstest.Inventory) {
				assert.Equal(t, 1, repo.Rollbacks)
				assert.Equal(t, 0, repo.Commits)
				assert.Equal(t, "Foco LED", repo.Products()[1].Name)
			},
		},
		{
			name:               "Unknown category",
			id:                 "2",
			form:               url.Values{"nombre": {"Foco LED"}, "cantidad": {"5"}, "categoria_id": {"42"}},
			mockRepoSetup:      newStockedInventory,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), alert(web.FlashDanger, validation.MsgInvalidCategory))
			},
			checkRepoCall: func(t *testing.T, repo *modelstest.Inventory) {
				assert.Equal(t, uint(2), repo.Products()[1].CategoryID)
			},
		},
		{
			name: "Update and reload both fail",
			id:   "2",
			form: url.Values{"nombre": {"Foco LED"}, "cantidad": {"5"}, "categoria_id": {"2"}},
			mockRepoSetup: func() *modelstest.Inventory {
				repo := newStockedInventory()
				repo.UpdateErr = models.ErrStorageUnavailable
				repo.CategoryErr = models.ErrStorageUnavailable
				return repo
			},
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, view *web.Renderer, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "/", rec.Header().Get("Location"))
				assert.Contains(t, followRedirect(t, view, rec), alert(web.FlashDanger, web.MsgUnavailable))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := tc.mockRepoSetup()
			handler, view := newTestHandler(t, repo)
			req := withID(newFormRequest(http.MethodPost, "/editar/"+tc.id, tc.form), tc.id)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleEdit(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, view, rec)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
		})
	}
}
