package adminapi

import (
	"net/http"
	"strconv"

	"github.com/crispan/mealprep/internal/repository"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
)

// Init registers every API route on the global web server
func Init() {
	registerIngredientRoutes()
	registerCalculateRoutes()
	registerReportRoutes()
	registerAuthRoutes()
}

// Response is the envelope of every API answer
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, Response{Success: false, Code: code, Message: message, Details: details})
}

// GetRepo returns the ingredient store of the request's application
func GetRepo(c echo.Context) repository.IngredientRepository {
	return webserver.GetAppContext(c).Ingredients()
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
