package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// TokenClaims is carried by API tokens issued after a successful login.
type TokenClaims struct {
	Kitchen bool `json:"kitchen"`
	jwt.RegisteredClaims
}

// IssueToken signs an API token for username. Tokens do not expire.
func IssueToken(secret, username string, now time.Time) (string, error) {
	claims := &TokenClaims{
		Kitchen: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// TokenMiddleware rejects API requests without a valid bearer token.
func TokenMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TokenClaims)
		},
	})
}

// TokenSubject returns the username of the validated token on c, if any.
func TokenSubject(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !claims.Kitchen {
		return ""
	}
	return claims.Subject
}
