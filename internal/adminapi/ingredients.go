package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crispan/mealprep/internal/auth"
	"github.com/crispan/mealprep/internal/domain"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerIngredientRoutes registers ingredient CRUD endpoints
func registerIngredientRoutes() {
	webserver.ApiGET("/ingredients", listIngredients)
	webserver.ApiGET("/ingredients/:id", getIngredient)
	webserver.ApiPOST("/ingredients", createIngredient)
	webserver.ApiGET("/categories", listCategories)
	webserver.SecureApiPUT("/ingredients/:id", updateIngredient)
	webserver.SecureApiDELETE("/ingredients/:id", deleteIngredient)
}

// listIngredients returns every ingredient, or one category filtered by q
func listIngredients(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	q := strings.TrimSpace(c.QueryParam("q"))

	var (
		rows []domain.Ingredient
		err  error
	)
	if category != "" {
		rows, err = GetRepo(c).ListByCategory(c.Request().Context(), category, q)
	} else {
		rows, err = GetRepo(c).List(c.Request().Context())
	}
	if err != nil {
		zap.L().Error("list ingredients failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query ingredients", err.Error())
	}
	if rows == nil {
		rows = []domain.Ingredient{}
	}
	return ok(c, rows)
}

func getIngredient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ingredient ID", nil)
	}
	ing, err := GetRepo(c).GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query ingredient", err.Error())
	}
	return ok(c, ing)
}

func bindIngredient(c echo.Context) (*domain.IngredientInput, error) {
	var payload domain.IngredientInput
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse ingredient", err.Error())
	}
	payload.Normalize()
	if err := c.Validate(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Please fill out all fields.", err.Error())
	}
	return &payload, nil
}

func createIngredient(c echo.Context) error {
	payload, err := bindIngredient(c)
	if payload == nil {
		return err
	}
	ing := payload.Ingredient(0)
	if err := GetRepo(c).Create(c.Request().Context(), &ing); err != nil {
		zap.L().Error("create ingredient failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create ingredient", err.Error())
	}
	zap.L().Info("ingredient added", zap.Int64("id", ing.ID), zap.String("name", ing.Name))
	return created(c, ing)
}

// updateIngredient overwrites every field; an unknown id is a no-op
func updateIngredient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ingredient ID", nil)
	}
	payload, err := bindIngredient(c)
	if payload == nil {
		return err
	}
	ing := payload.Ingredient(id)
	updated, err := GetRepo(c).Update(c.Request().Context(), &ing)
	if err != nil {
		zap.L().Error("update ingredient failed", zap.Int64("id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update ingredient", err.Error())
	}
	zap.L().Info("ingredient update", zap.Int64("id", id), zap.Bool("updated", updated),
		zap.String("by", auth.TokenSubject(c)))
	return ok(c, map[string]interface{}{"id": id, "updated": updated})
}

// deleteIngredient removes by id; an unknown id is a no-op
func deleteIngredient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ingredient ID", nil)
	}
	deleted, err := GetRepo(c).Delete(c.Request().Context(), id)
	if err != nil {
		zap.L().Error("delete ingredient failed", zap.Int64("id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete ingredient", err.Error())
	}
	zap.L().Info("ingredient delete", zap.Int64("id", id), zap.Bool("deleted", deleted),
		zap.String("by", auth.TokenSubject(c)))
	return ok(c, map[string]interface{}{"id": id, "deleted": deleted})
}

func listCategories(c echo.Context) error {
	categories, err := GetRepo(c).ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	if categories == nil {
		categories = []string{}
	}
	return ok(c, categories)
}
