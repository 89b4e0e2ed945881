package adminapi

import (
	"net/http"
	"strings"

	"github.com/crispan/mealprep/internal/scaling"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
)

type calculatePayload struct {
	Category    string  `json:"category" validate:"required"`
	IDs         []int64 `json:"ids" validate:"required,min=1"`
	TotalPeople int     `json:"total_people" validate:"required,min=1"`
}

type calculateLine struct {
	scaling.Line
	TotalText string `json:"total_text"`
	Display   string `json:"display"`
}

func registerCalculateRoutes() {
	webserver.ApiPOST("/calculate", calculate)
}

// calculate scales the selected ingredients of one category by headcount
func calculate(c echo.Context) error {
	var payload calculatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse calculation", err.Error())
	}
	payload.Category = strings.TrimSpace(payload.Category)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Select a category, at least one ingredient and at least 1 person", err.Error())
	}

	all, err := GetRepo(c).ListByCategory(c.Request().Context(), payload.Category, "")
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query ingredients", err.Error())
	}
	lines, err := scaling.Scale(scaling.Select(all, payload.IDs), payload.TotalPeople)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	out := make([]calculateLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, calculateLine{Line: l, TotalText: l.TotalText(), Display: l.Display()})
	}
	return ok(c, map[string]interface{}{
		"category":     payload.Category,
		"total_people": payload.TotalPeople,
		"lines":        out,
	})
}
