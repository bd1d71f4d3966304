package car

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Error      string            `json:"error"`
	Pagination *types.Pagination `json:"pagination"`
}

func newCarRouter(service CarService) http.Handler {
	h := NewCarHandler(service, discardLogger())
	r := chi.NewRouter()
	r.Route("/api/cars", func(r chi.Router) {
		r.Get("/", h.ListCars)
		r.Post("/", h.CreateCar)
		r.Get("/{id}", h.GetCar)
		r.Put("/{id}", h.UpdateCar)
		r.Delete("/{id}", h.DeleteCar)
	})
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

const camryJSON = `{"brand":"Toyota","model":"Camry","year":2018,"price":1650000,"mileage":89000,"color":"Black","vin":"jtnb11hk8j3001234"}`

func TestCarHandlerCRUD(t *testing.T) {
	h := newCarRouter(NewCarService(NewMemoryCarRepo(), discardLogger()))

	rec, env := serve(t, h, http.MethodPost, "/api/cars", camryJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.Car
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "JTNB11HK8J3001234", created.VIN)

	rec, env = serve(t, h, http.MethodGet, "/api/cars?search=camry&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, types.Pagination{Page: 1, Limit: 5, Total: 1, TotalPages: 1}, *env.Pagination)
	var listed []types.Car
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)

	path := "/api/cars/" + jsonNumber(created.ID)
	update := strings.Replace(camryJSON, `"mileage":89000`, `"mileage":0`, 1)
	rec, env = serve(t, h, http.MethodPut, path, update)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated types.Car
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, 0, updated.Mileage)

	rec, env = serve(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"car deleted"}`, string(env.Data))

	rec, env = serve(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgCarNotFound, env.Error)
}

func TestCarHandlerEmptyListIsArray(t *testing.T) {
	h := newCarRouter(NewCarService(NewMemoryCarRepo(), discardLogger()))

	rec, env := serve(t, h, http.MethodGet, "/api/cars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Equal(t, types.Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, *env.Pagination)
}

func TestCarHandlerErrors(t *testing.T) {
	service := NewCarService(NewMemoryCarRepo(), discardLogger())
	h := newCarRouter(service)
	_, _ = serve(t, h, http.MethodPost, "/api/cars", camryJSON)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"NonNumericID", http.MethodGet, "/api/cars/abc", "", http.StatusNotFound, MsgCarNotFound},
		{"ZeroID", http.MethodDelete, "/api/cars/0", "", http.StatusNotFound, MsgCarNotFound},
		{"MalformedBody", http.MethodPost, "/api/cars", `{"brand":`, http.StatusBadRequest, "invalid request payload"},
		{"WrongType", http.MethodPost, "/api/cars", `{"year":"2018"}`, http.StatusBadRequest, "invalid request payload"},
		{"MissingFields", http.MethodPost, "/api/cars", `{"brand":"Toyota"}`, http.StatusBadRequest, MsgFieldsRequired},
		{"DuplicateVIN", http.MethodPost, "/api/cars", camryJSON, http.StatusBadRequest, MsgVINTaken},
		{"UpdateMissing", http.MethodPut, "/api/cars/999", camryJSON, http.StatusNotFound, MsgCarNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.wantError, env.Error)
		})
	}
}

func TestCarHandlerHidesInternalErrors(t *testing.T) {
	repo := new(MockCarRepo)
	repo.On("GetByID", mock.Anything, int64(1)).Return(nil, assert.AnError).Once()
	h := newCarRouter(NewCarService(repo, discardLogger()))

	rec, env := serve(t, h, http.MethodGet, "/api/cars/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", env.Error)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
