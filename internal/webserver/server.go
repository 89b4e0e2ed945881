package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crispan/mealprep/internal/app"
	"github.com/crispan/mealprep/internal/auth"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	appContextKey = "mealprep.appctx"

	// CSRFField is the form field and cookie carrying the page CSRF token
	CSRFField      = "_csrf"
	csrfContextKey = "csrf"
)

// WebServer holds the echo instance and its route groups.
type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	csrf   echo.MiddlewareFunc
	token  echo.MiddlewareFunc
	appCtx app.AppContext
}

var server *WebServer

// Init builds the global web server for appCtx. Calling it again replaces
// the previous instance.
func Init(appCtx app.AppContext) *WebServer {
	cfg := appCtx.Config()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = httpErrorHandler(e)

	// metrics wrap the access log so they observe the final status
	e.Use(newHTTPMetrics(cfg.System.Appid).Middleware())
	e.Use(accessLog())
	e.Use(middleware.Recover())
	e.Use(session.Middleware(auth.NewStore(cfg.Web.Secret)))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(prometheusHandler()))

	// gated middleware is attached per route: a group with middleware would
	// also catch unknown /api/v1 paths
	server = &WebServer{
		root: e,
		api:  e.Group("/api/v1"),
		csrf: middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + CSRFField,
			ContextKey:     csrfContextKey,
			CookieName:     CSRFField,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}),
		token:  auth.TokenMiddleware(cfg.Web.Secret),
		appCtx: appCtx,
	}
	return server
}

// Echo returns the underlying echo instance of the global server.
func Echo() *echo.Echo {
	return server.root
}

// SetRenderer installs the page template renderer.
func SetRenderer(r echo.Renderer) {
	server.root.Renderer = r
}

// GetAppContext returns the application bound to the request.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// CSRFToken returns the page CSRF token of the request, empty outside
// page routes.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(csrfContextKey).(string)
	return token
}

// Page routes, CSRF protected

func GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.GET(path, h, append([]echo.MiddlewareFunc{server.csrf}, m...)...)
}

func POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.POST(path, h, append([]echo.MiddlewareFunc{server.csrf}, m...)...)
}

// Public API routes under /api/v1

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

// Token-gated API routes under /api/v1

func SecureApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, append([]echo.MiddlewareFunc{server.token}, m...)...)
}

func SecureApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, append([]echo.MiddlewareFunc{server.token}, m...)...)
}

// Listen serves HTTP until ctx is cancelled, then shuts down gracefully.
func Listen(ctx context.Context) error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("web server listening", zap.String("addr", addr))
		if err := server.root.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zap.L().Info("web server shutting down")
	return server.root.Shutdown(shutdownCtx)
}

func accessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			switch {
			case res.Status >= http.StatusInternalServerError:
				zap.L().Error("request", append(fields, zap.Error(err))...)
			case res.Status >= http.StatusBadRequest:
				zap.L().Warn("request", fields...)
			default:
				zap.L().Debug("request", fields...)
			}
			return nil
		}
	}
}

// httpErrorHandler answers API paths with the JSON envelope and falls back
// to echo's default handler elsewhere.
func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		he, ok := err.(*echo.HTTPError)
		if !ok {
			he = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			he.Internal = err
		}
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			msg := fmt.Sprint(he.Message)
			if jerr := c.JSON(he.Code, map[string]interface{}{
				"success": false,
				"code":    "HTTP_ERROR",
				"message": msg,
			}); jerr != nil {
				zap.L().Error("write error response", zap.Error(jerr))
			}
			return
		}
		e.DefaultHTTPErrorHandler(he, c)
	}
}
