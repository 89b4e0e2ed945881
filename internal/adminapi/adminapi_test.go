package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crispan/mealprep/config"
	"github.com/crispan/mealprep/internal/app"
	"github.com/crispan/mealprep/internal/auth"
	"github.com/crispan/mealprep/internal/domain"
	"github.com/crispan/mealprep/internal/report"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func setupServer(t *testing.T) (*echo.Echo, *app.Application) {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	a := app.NewApplication(&cfg)
	require.NoError(t, a.Init(&cfg))
	t.Cleanup(a.Release)

	webserver.Init(a)
	Init()
	return webserver.Echo(), a
}

func call(t *testing.T, e *echo.Echo, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) != "" && bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func loginToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec, env := call(t, e, http.MethodPost, "/api/v1/login", map[string]string{"username": "kitchen", "password": "chef1234"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data["token"])
	return data["token"]
}

func createVia(t *testing.T, e *echo.Echo, name string, qty float64, unit, category string) domain.Ingredient {
	t.Helper()
	rec, env := call(t, e, http.MethodPost, "/api/v1/ingredients", map[string]interface{}{
		"name": name, "quantity_per_person": qty, "unit": unit, "category": category,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ing domain.Ingredient
	require.NoError(t, json.Unmarshal(env.Data, &ing))
	return ing
}

func TestCreateAndList(t *testing.T) {
	e, _ := setupServer(t)

	created := createVia(t, e, "  Basmati ", 0.2, "kg", "Rice")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Basmati", created.Name)

	rec, env := call(t, e, http.MethodGet, "/api/v1/ingredients", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []domain.Ingredient
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Equal(t, []domain.Ingredient{created}, rows)

	rec, env = call(t, e, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Ingredient
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created, got)
}

func TestCreate_ZeroQuantityAccepted(t *testing.T) {
	e, _ := setupServer(t)
	ing := createVia(t, e, "Salt", 0, "g", "Soup")
	assert.Zero(t, ing.QuantityPerPerson)
}

func TestCreate_MissingFields(t *testing.T) {
	e, _ := setupServer(t)

	bodies := []map[string]interface{}{
		{"quantity_per_person": 1, "unit": "kg", "category": "Rice"},
		{"name": "Rice", "unit": "kg", "category": "Rice"},
		{"name": "Rice", "quantity_per_person": 1, "unit": "  ", "category": "Rice"},
		{"name": "Rice", "quantity_per_person": -1, "unit": "kg", "category": "Rice"},
		{"name": "Rice", "quantity_per_person": 1, "unit": "kg"},
	}
	for _, body := range bodies {
		rec, env := call(t, e, http.MethodPost, "/api/v1/ingredients", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
		assert.False(t, env.Success)
	}

	rec, env := call(t, e, http.MethodGet, "/api/v1/ingredients", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestGetIngredient_NotFound(t *testing.T) {
	e, _ := setupServer(t)
	rec, env := call(t, e, http.MethodGet, "/api/v1/ingredients/42", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	rec, _ = call(t, e, http.MethodGet, "/api/v1/ingredients/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListByCategoryAndCategories(t *testing.T) {
	e, _ := setupServer(t)
	createVia(t, e, "Carrot", 0.1, "kg", "Soup")
	createVia(t, e, "Leek", 0.1, "kg", "Soup")
	createVia(t, e, "Basmati", 0.2, "kg", "Rice")

	_, env := call(t, e, http.MethodGet, "/api/v1/categories", nil, "")
	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.ElementsMatch(t, []string{"Rice", "Soup"}, categories)

	_, env = call(t, e, http.MethodGet, "/api/v1/ingredients?category=Soup&q=lee", nil, "")
	var rows []domain.Ingredient
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Leek", rows[0].Name)
}

func TestUpdateAndDelete_RequireToken(t *testing.T) {
	e, _ := setupServer(t)
	ing := createVia(t, e, "Carrot", 0.1, "kg", "Soup")
	path := fmt.Sprintf("/api/v1/ingredients/%d", ing.ID)

	rec, _ := call(t, e, http.MethodPut, path, map[string]interface{}{
		"name": "Carrot", "quantity_per_person": 0.2, "unit": "kg", "category": "Soup",
	}, "")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec, _ = call(t, e, http.MethodDelete, path, nil, "not-a-token")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestUpdateAndDelete_RejectShippedSecretToken(t *testing.T) {
	e, a := setupServer(t)
	ing := createVia(t, e, "Carrot", 0.1, "kg", "Soup")
	require.NotEqual(t, config.DefaultWebSecret, a.Config().Web.Secret)

	forged, err := auth.IssueToken(config.DefaultWebSecret, "kitchen", time.Now())
	require.NoError(t, err)

	rec, _ := call(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), nil, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err = a.Ingredients().GetByID(context.Background(), ing.ID)
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e, _ := setupServer(t)
	rec, env := call(t, e, http.MethodPost, "/api/v1/login", map[string]string{"username": "kitchen", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
}

func TestUpdate_FullOverwrite(t *testing.T) {
	e, _ := setupServer(t)
	token := loginToken(t, e)
	ing := createVia(t, e, "Olive Oil", 0.015, "l", "Salad")

	rec, env := call(t, e, http.MethodPut, fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), map[string]interface{}{
		"name": ing.Name, "quantity_per_person": 0.02, "unit": ing.Unit, "category": ing.Category,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"updated":true}`, ing.ID), string(env.Data))

	_, env = call(t, e, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), nil, "")
	var got domain.Ingredient
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, domain.Ingredient{ID: ing.ID, Name: "Olive Oil", QuantityPerPerson: 0.02, Unit: "l", Category: "Salad"}, got)
}

func TestUpdateAndDelete_MissingIDIsNoop(t *testing.T) {
	e, a := setupServer(t)
	token := loginToken(t, e)
	createVia(t, e, "Carrot", 0.1, "kg", "Soup")

	rec, env := call(t, e, http.MethodPut, "/api/v1/ingredients/999", map[string]interface{}{
		"name": "Ghost", "quantity_per_person": 1, "unit": "kg", "category": "Soup",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":999,"updated":false}`, string(env.Data))

	rec, env = call(t, e, http.MethodDelete, "/api/v1/ingredients/999", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":999,"deleted":false}`, string(env.Data))

	rows, err := a.Ingredients().List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Carrot", rows[0].Name)
}

func TestDelete(t *testing.T) {
	e, _ := setupServer(t)
	token := loginToken(t, e)
	ing := createVia(t, e, "Carrot", 0.1, "kg", "Soup")

	rec, env := call(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"deleted":true}`, ing.ID), string(env.Data))

	rec, _ = call(t, e, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculate(t *testing.T) {
	e, _ := setupServer(t)
	rice := createVia(t, e, "Rice", 0.5, "kg", "Rice")
	salt := createVia(t, e, "Salt", 0, "g", "Rice")
	other := createVia(t, e, "Carrot", 0.1, "kg", "Soup")

	rec, env := call(t, e, http.MethodPost, "/api/v1/calculate", map[string]interface{}{
		"category": "Rice", "ids": []int64{salt.ID, rice.ID, other.ID}, "total_people": 10,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Lines []struct {
			Name      string `json:"name"`
			TotalText string `json:"total_text"`
			Display   string `json:"display"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Lines, 2)
	assert.Equal(t, "0.00", data.Lines[0].TotalText)
	assert.Equal(t, "Rice: 5.00 kg", data.Lines[1].Display)
}

func TestCalculate_Invalid(t *testing.T) {
	e, _ := setupServer(t)
	rice := createVia(t, e, "Rice", 0.5, "kg", "Rice")

	for _, body := range []map[string]interface{}{
		{"category": "Rice", "ids": []int64{rice.ID}, "total_people": 0},
		{"category": "Rice", "ids": []int64{}, "total_people": 3},
		{"ids": []int64{rice.ID}, "total_people": 3},
	} {
		rec, _ := call(t, e, http.MethodPost, "/api/v1/calculate", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
	}
}

func TestExports(t *testing.T) {
	e, _ := setupServer(t)
	createVia(t, e, "Carrot", 0.1, "kg", "Soup")
	createVia(t, e, "Basmati", 0.2, "kg", "Rice")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/ingredients.csv", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), report.CSVFilename)
	parsed, err := report.ParseCSV(rec.Body)
	require.NoError(t, err)
	assert.Len(t, parsed, 2)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/ingredients.xlsx", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.XLSXContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), report.XLSXFilename)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	_, env := call(t, e, http.MethodGet, "/api/v1/reports/summary", nil, "")
	var summary []report.CategorySummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Len(t, summary, 2)
}

func TestHealth(t *testing.T) {
	e, _ := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
