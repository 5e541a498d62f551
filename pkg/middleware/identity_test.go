package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type staticResolver map[string]string

func (s staticResolver) Resolve(ctx context.Context, credential string) (string, error) {
	if name, ok := s[credential]; ok {
		return name, nil
	}
	return "anonymous", nil
}

func TestIdentityMiddlewareCookie(t *testing.T) {
	r := gin.New()
	r.Use(IdentityMiddleware(staticResolver{"tok-1": "alice"}, "x_access_token"))
	r.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, Username(c)) })

	req := httptest.NewRequest("GET", "/who", nil)
	req.AddCookie(&http.Cookie{Name: "x_access_token", Value: "tok-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "alice", w.Body.String())
}

func TestIdentityMiddlewareBearer(t *testing.T) {
	r := gin.New()
	r.Use(IdentityMiddleware(staticResolver{"tok-2": "bob"}, "x_access_token"))
	r.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, Username(c)) })

	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set("Authorization", "Bearer tok-2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "bob", w.Body.String())
}

func TestIdentityMiddlewareAnonymousFallback(t *testing.T) {
	r := gin.New()
	r.Use(IdentityMiddleware(staticResolver{}, "x_access_token"))
	r.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, Username(c)) })

	req := httptest.NewRequest("GET", "/who", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "anonymous", w.Body.String())
}
