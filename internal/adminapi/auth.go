package adminapi

import (
	"net/http"
	"time"

	"github.com/crispan/mealprep/internal/auth"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/login", login)
}

// login exchanges the kitchen credentials for a bearer token
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	cfg := webserver.GetAppContext(c).Config()
	gate := auth.NewGate(cfg.Kitchen.Username, cfg.Kitchen.Password)
	if err := gate.Check(payload.Username, payload.Password); err != nil {
		zap.L().Warn("api login rejected", zap.String("username", payload.Username), zap.String("ip", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password.", nil)
	}

	token, err := auth.IssueToken(cfg.Web.Secret, payload.Username, time.Now())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, map[string]string{"token": token})
}
