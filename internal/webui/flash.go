package webui

import (
	"strings"

	"github.com/crispan/mealprep/internal/auth"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// Flash is a one-shot message shown after a redirect
type Flash struct {
	Kind string
	Text string
}

func addFlash(c echo.Context, kind, text string) {
	sess, err := session.Get(auth.SessionName, c)
	if sess == nil {
		zap.L().Warn("flash dropped", zap.Error(err))
		return
	}
	sess.AddFlash(kind + "|" + text)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		zap.L().Warn("save flash failed", zap.Error(err))
	}
}

func popFlashes(c echo.Context) []Flash {
	sess, _ := session.Get(auth.SessionName, c)
	if sess == nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request(), c.Response())

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		kind, text, found := strings.Cut(s, "|")
		if !found {
			kind, text = flashInfo, s
		}
		out = append(out, Flash{Kind: kind, Text: text})
	}
	return out
}
