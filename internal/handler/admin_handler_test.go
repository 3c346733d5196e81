package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newGateRouter(t *testing.T, gate *AdminGate) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.POST("/login", gate.Login)
	r.POST("/logout", gate.Logout)
	r.GET("/protected", gate.AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func serve(r *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAdminGateDisabledWithoutPassword(t *testing.T) {
	gate, err := NewAdminGate("")
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if gate.Enabled() {
		t.Fatalf("gate must be disabled without a password")
	}

	rr := serve(newGateRouter(t, gate), http.MethodGet, "/protected", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected open access, got %d", rr.Code)
	}
}

func TestAdminGateLoginLogout(t *testing.T) {
	gate, err := NewAdminGate("hunter2")
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	r := newGateRouter(t, gate)

	rr := serve(r, http.MethodGet, "/protected", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Authentication required") {
		t.Fatalf("expected JSON error body, got %s", rr.Body.String())
	}

	if rr := serve(r, http.MethodPost, "/login", `{"password":"nope"}`, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodPost, "/login", `not json`, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}

	rr = serve(r, http.MethodPost, "/login", `{"password":"hunter2"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login success, got %d", rr.Code)
	}
	session := rr.Result().Cookies()

	if rr := serve(r, http.MethodGet, "/protected", "", session); rr.Code != http.StatusOK {
		t.Fatalf("expected access with session, got %d", rr.Code)
	}

	rr = serve(r, http.MethodPost, "/logout", "", session)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: %d", rr.Code)
	}
	if rr := serve(r, http.MethodGet, "/protected", "", rr.Result().Cookies()); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rr.Code)
	}
}

func TestAdminGateAcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	gate, err := NewAdminGate(string(hash))
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	rr := serve(newGateRouter(t, gate), http.MethodPost, "/login", `{"password":"s3cret"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected hashed password to be accepted, got %d", rr.Code)
	}
}
