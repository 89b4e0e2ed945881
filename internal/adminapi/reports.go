package adminapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/crispan/mealprep/internal/domain"
	"github.com/crispan/mealprep/internal/report"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerReportRoutes() {
	webserver.ApiGET("/reports/ingredients.xlsx", exportXLSX)
	webserver.ApiGET("/reports/ingredients.csv", exportCSV)
	webserver.ApiGET("/reports/summary", reportSummary)
}

// ExportXLSX streams the spreadsheet export of every ingredient
func ExportXLSX(c echo.Context, items []domain.Ingredient) error {
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, items); err != nil {
		return err
	}
	return attachment(c, report.XLSXFilename, report.XLSXContentType, buf.Bytes())
}

// ExportCSV streams the comma-separated export of every ingredient
func ExportCSV(c echo.Context, items []domain.Ingredient) error {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, items); err != nil {
		return err
	}
	return attachment(c, report.CSVFilename, report.CSVContentType, buf.Bytes())
}

func attachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, contentType, data)
}

func exportXLSX(c echo.Context) error {
	items, err := GetRepo(c).List(c.Request().Context())
	if err == nil {
		err = ExportXLSX(c, items)
	}
	if err != nil {
		zap.L().Error("xlsx export failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export ingredients", err.Error())
	}
	return nil
}

func exportCSV(c echo.Context) error {
	items, err := GetRepo(c).List(c.Request().Context())
	if err == nil {
		err = ExportCSV(c, items)
	}
	if err != nil {
		zap.L().Error("csv export failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export ingredients", err.Error())
	}
	return nil
}

func reportSummary(c echo.Context) error {
	items, err := GetRepo(c).List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query ingredients", err.Error())
	}
	return ok(c, report.Summarize(items))
}
