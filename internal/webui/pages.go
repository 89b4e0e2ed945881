package webui

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/crispan/mealprep/internal/adminapi"
	"github.com/crispan/mealprep/internal/auth"
	"github.com/crispan/mealprep/internal/domain"
	"github.com/crispan/mealprep/internal/report"
	"github.com/crispan/mealprep/internal/repository"
	"github.com/crispan/mealprep/internal/scaling"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	tabAdd       = "add"
	tabCalculate = "calculate"
	tabManage    = "manage"
	tabReport    = "report"

	msgFillAllFields = "Please fill out all fields."
)

var tabs = []struct{ Key, Label string }{
	{tabAdd, "Add Ingredients"},
	{tabCalculate, "Calculate Ingredients"},
	{tabManage, "Manage Ingredients"},
	{tabReport, "Ingredient Report"},
}

// Init installs the renderer and registers the page routes
func Init() {
	webserver.SetRenderer(newRenderer())

	webserver.GET("/", index)
	webserver.POST("/ingredients", addIngredient)
	webserver.POST("/calculate", calculate)
	webserver.POST("/login", login)
	webserver.POST("/logout", logout)
	webserver.POST("/manage/:id", manageIngredient)
	webserver.GET("/report/ingredients.xlsx", downloadXLSX)
	webserver.GET("/report/ingredients.csv", downloadCSV)
}

type calculateView struct {
	Categories []string
	Category   string
	Query      string
	Options    []domain.Ingredient
	Selected   map[int64]bool
	People     int
	Lines      []scaling.Line
	Warning    string
	Submitted  bool
}

type manageView struct {
	Ingredients []domain.Ingredient
	Editing     *domain.Ingredient
}

type reportView struct {
	Ingredients []domain.Ingredient
	Summary     []report.CategorySummary
}

type pageData struct {
	Title   string
	Tabs    interface{}
	Tab     string
	Flashes []Flash
	Session *auth.Session
	CSRF    string

	Calculate calculateView
	Manage    manageView
	Report    reportView
}

func repo(c echo.Context) repository.IngredientRepository {
	return webserver.GetAppContext(c).Ingredients()
}

func newPage(c echo.Context, tab string) *pageData {
	return &pageData{
		Title:   webserver.GetAppContext(c).Config().Kitchen.Title,
		Tabs:    tabs,
		Tab:     tab,
		Flashes: popFlashes(c),
		Session: auth.Load(c),
		CSRF:    webserver.CSRFToken(c),
	}
}

func tabURL(tab string) string {
	return "/?tab=" + tab
}

func redirect(c echo.Context, tab string) error {
	return c.Redirect(http.StatusSeeOther, tabURL(tab))
}

func index(c echo.Context) error {
	tab := c.QueryParam("tab")
	switch tab {
	case tabAdd, tabCalculate, tabManage, tabReport:
	default:
		tab = tabAdd
	}
	page := newPage(c, tab)

	var err error
	switch tab {
	case tabCalculate:
		err = loadCalculate(c, page, c.QueryParam("category"), c.QueryParam("q"))
	case tabManage:
		err = loadManage(c, page)
	case tabReport:
		err = loadReport(c, page)
	}
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index.html", page)
}

func loadCalculate(c echo.Context, page *pageData, category, query string) error {
	ctx := c.Request().Context()
	view := &page.Calculate
	view.People = scaling.MinHeadcount
	view.Selected = map[int64]bool{}
	view.Query = strings.TrimSpace(query)

	categories, err := repo(c).ListCategories(ctx)
	if err != nil {
		return err
	}
	view.Categories = categories
	if len(categories) == 0 {
		view.Warning = "No categories available. Please add ingredients first."
		return nil
	}

	view.Category = categories[0]
	for _, cat := range categories {
		if cat == category {
			view.Category = cat
			break
		}
	}

	all, err := repo(c).ListByCategory(ctx, view.Category, "")
	if err != nil {
		return err
	}
	if len(all) == 0 {
		view.Warning = "No ingredients found for the selected category."
		return nil
	}
	view.Options = all
	if view.Query != "" {
		if view.Options, err = repo(c).ListByCategory(ctx, view.Category, view.Query); err != nil {
			return err
		}
	}
	return nil
}

func loadManage(c echo.Context, page *pageData) error {
	if !page.Session.Authenticated {
		return nil
	}
	rows, err := repo(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	page.Manage.Ingredients = rows
	if len(rows) == 0 {
		return nil
	}
	page.Manage.Editing = &rows[0]
	if id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64); err == nil {
		for i := range rows {
			if rows[i].ID == id {
				page.Manage.Editing = &rows[i]
				break
			}
		}
	}
	return nil
}

func loadReport(c echo.Context, page *pageData) error {
	rows, err := repo(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	page.Report.Ingredients = rows
	page.Report.Summary = report.Summarize(rows)
	return nil
}

// parseIngredientForm reads the ingredient form fields. It reports false when
// a field is missing or the quantity is not a non-negative number.
func parseIngredientForm(c echo.Context) (domain.IngredientInput, bool) {
	in := domain.IngredientInput{
		Name:     c.FormValue("name"),
		Unit:     c.FormValue("unit"),
		Category: c.FormValue("category"),
	}
	if raw := strings.TrimSpace(c.FormValue("quantity_per_person")); raw != "" {
		if q, err := cast.ToFloat64E(raw); err == nil && !math.IsNaN(q) && !math.IsInf(q, 0) {
			in.QuantityPerPerson = &q
		}
	}
	in.Normalize()
	if err := c.Validate(&in); err != nil {
		return in, false
	}
	return in, true
}

func addIngredient(c echo.Context) error {
	in, valid := parseIngredientForm(c)
	if !valid {
		addFlash(c, flashError, msgFillAllFields)
		return redirect(c, tabAdd)
	}
	ing := in.Ingredient(0)
	if err := repo(c).Create(c.Request().Context(), &ing); err != nil {
		zap.L().Error("create ingredient failed", zap.Error(err))
		return err
	}
	addFlash(c, flashSuccess, fmt.Sprintf("Ingredient '%s' added successfully!", ing.Name))
	return redirect(c, tabAdd)
}

func calculate(c echo.Context) error {
	page := newPage(c, tabCalculate)
	if err := loadCalculate(c, page, c.FormValue("category"), c.FormValue("q")); err != nil {
		return err
	}
	view := &page.Calculate
	if view.Warning != "" {
		return c.Render(http.StatusOK, "index.html", page)
	}
	view.Submitted = true

	form, err := c.FormParams()
	if err != nil {
		return err
	}
	var ids []int64
	for _, raw := range form["ids"] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ids = append(ids, id)
			view.Selected[id] = true
		}
	}
	peopleOK := true
	if raw := strings.TrimSpace(c.FormValue("people")); raw != "" {
		// decimal only: a leading zero is not an octal prefix
		n, err := strconv.Atoi(raw)
		if err != nil {
			peopleOK = false
		} else {
			view.People = n
		}
	}

	switch {
	case len(ids) == 0:
		view.Warning = "Please select at least one ingredient."
	case !peopleOK || view.People < scaling.MinHeadcount:
		view.Warning = "Total number of people must be at least 1."
		view.People = scaling.MinHeadcount
	default:
		all, err := repo(c).ListByCategory(c.Request().Context(), view.Category, "")
		if err != nil {
			return err
		}
		view.Lines, err = scaling.Scale(scaling.Select(all, ids), view.People)
		if err != nil {
			return err
		}
	}
	return c.Render(http.StatusOK, "index.html", page)
}

func login(c echo.Context) error {
	cfg := webserver.GetAppContext(c).Config()
	gate := auth.NewGate(cfg.Kitchen.Username, cfg.Kitchen.Password)
	username := c.FormValue("username")
	if err := gate.Check(username, c.FormValue("password")); err != nil {
		zap.L().Warn("login rejected", zap.String("username", username), zap.String("ip", c.RealIP()))
		addFlash(c, flashError, "Invalid username or password.")
		return redirect(c, tabManage)
	}
	if err := auth.Load(c).Login(c, username); err != nil {
		return err
	}
	addFlash(c, flashSuccess, "Login successful!")
	return redirect(c, tabManage)
}

func logout(c echo.Context) error {
	if err := auth.Load(c).Clear(c); err != nil {
		return err
	}
	addFlash(c, flashInfo, "Logged out.")
	return redirect(c, tabManage)
}

// manageIngredient saves or deletes one ingredient. Unknown ids are ignored.
func manageIngredient(c echo.Context) error {
	if !auth.Load(c).Authenticated {
		addFlash(c, flashError, "Login required.")
		return redirect(c, tabManage)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ingredient id")
	}
	ctx := c.Request().Context()

	if c.FormValue("action") == "delete" {
		deleted, err := repo(c).Delete(ctx, id)
		if err != nil {
			zap.L().Error("delete ingredient failed", zap.Int64("id", id), zap.Error(err))
			return err
		}
		if deleted {
			addFlash(c, flashSuccess, fmt.Sprintf("Ingredient '%s' deleted successfully!", strings.TrimSpace(c.FormValue("name"))))
		}
		return redirect(c, tabManage)
	}

	in, valid := parseIngredientForm(c)
	if !valid {
		addFlash(c, flashError, msgFillAllFields)
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s&id=%d", tabURL(tabManage), id))
	}
	ing := in.Ingredient(id)
	updated, err := repo(c).Update(ctx, &ing)
	if err != nil {
		zap.L().Error("update ingredient failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if updated {
		addFlash(c, flashSuccess, fmt.Sprintf("Ingredient '%s' updated successfully!", ing.Name))
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s&id=%d", tabURL(tabManage), id))
}

func downloadXLSX(c echo.Context) error {
	rows, err := repo(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	return adminapi.ExportXLSX(c, rows)
}

func downloadCSV(c echo.Context) error {
	rows, err := repo(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	return adminapi.ExportCSV(c, rows)
}
