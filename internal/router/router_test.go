package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/store"
)

func setupTestRouter(t *testing.T, password string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	s := store.NewGormStore(db.NewSQLiteConnector(dsn))
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})

	posts := service.NewPostService(s, "Author")
	images := service.NewIdeogramClient("", "", true, time.Second)
	api := handler.NewAPI(posts, service.NewIngestService(posts, images, "Author"), service.NewContentOptimizerService("", "", "", time.Second), images)

	gate, err := handler.NewAdminGate(password)
	if err != nil {
		t.Fatalf("admin gate: %v", err)
	}
	return SetupRouter(api, gate, "test-secret")
}

func TestSetupRouterAssignsRequestID(t *testing.T) {
	r := setupTestRouter(t, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected caller request id to be echoed, got %q", got)
	}
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	r := setupTestRouter(t, "s3cret")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"wrong"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"s3cret"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login success, got %d: %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected admin list after login, got %d", rr.Code)
	}
}

func TestPublicRoutesOpen(t *testing.T) {
	r := setupTestRouter(t, "s3cret")

	for _, path := range []string{"/posts", "/ingest"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}
