package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/keynotes/internal/adapter/handler"
	"github.com/johnquangdev/keynotes/internal/infrastructure/cache"
	"github.com/johnquangdev/keynotes/pkg/jwt"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = handler.HandleError(nil, c, err)
	}
	store := cache.NewMemoryStore()
	defer store.Close()
	e.GET("/", okHandler, RateLimit(store, 2, time.Minute, nil))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := hit("10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, rec.Code)
		}
	}

	rec := hit("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected headers %v", rec.Header())
	}

	if rec := hit("10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("other clients must not be limited, got %d", rec.Code)
	}
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, fmt.Errorf("redis down")
}

func (failingCounter) Close() error { return nil }

func TestRateLimit_CounterFailureLetsRequestThrough(t *testing.T) {
	e := echo.New()
	e.GET("/", okHandler, RateLimit(failingCounter{}, 1, time.Minute, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestEchoAuth(t *testing.T) {
	manager := jwt.NewManager("secret", "keynotes")
	valid, err := manager.GenerateAccessToken("dashboard", jwt.ScopeNotesRead, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	forged, _ := jwt.NewManager("other", "keynotes").GenerateAccessToken("dashboard", "", time.Hour)

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(ContextKeySubject).(string))
	}, EchoAuth(manager, nil))

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"bearer", "Bearer " + valid, "", http.StatusOK},
		{"lowercase scheme", "bearer " + valid, "", http.StatusOK},
		{"cookie", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"forged", "Bearer " + forged, "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusOK && rec.Body.String() != "dashboard" {
				t.Fatalf("subject not set: %q", rec.Body.String())
			}
		})
	}
}
