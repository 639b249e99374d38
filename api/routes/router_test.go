package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/flourhouse/bakery-backend/pkg/auth"
	"github.com/flourhouse/bakery-backend/pkg/config"
	"github.com/flourhouse/bakery-backend/pkg/enums"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "bakery-test",
			ExpirationMinutes: 15,
		},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	// Services are left nil on purpose: the handlers answer 500 for a nil
	// service, which distinguishes "route reached" from 401/403/404.
	return NewRouter(Deps{Config: testConfig()})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router-test@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func perform(t *testing.T, handler http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthIsPublic(t *testing.T) {
	handler := testRouter(t)

	if rec := perform(t, handler, http.MethodGet, "/health/live", ""); rec.Code != http.StatusOK {
		t.Fatalf("live endpoint status = %d", rec.Code)
	}
	// Ready succeeds because no datasources are wired in this test.
	if rec := perform(t, handler, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready endpoint status = %d", rec.Code)
	}
}

func TestRouterPublicCatalogRoutesExist(t *testing.T) {
	handler := testRouter(t)

	paths := []string{
		"/api/v1/products",
		"/api/v1/products/" + uuid.NewString(),
		"/api/v1/products/" + uuid.NewString() + "/reviews",
		"/api/v1/categories",
		"/api/v1/ingredients",
	}
	for _, path := range paths {
		rec := perform(t, handler, http.MethodGet, path, "")
		if rec.Code == http.StatusNotFound || rec.Code == http.StatusUnauthorized {
			t.Fatalf("%s should be a public route, got %d", path, rec.Code)
		}
	}
}

func TestRouterAuthenticatedRoutesRejectAnonymous(t *testing.T) {
	handler := testRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/cart/summary"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodDelete, "/api/v1/reviews/" + uuid.NewString()},
	}
	for _, tc := range cases {
		rec := perform(t, handler, tc.method, tc.path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without a token = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterCustomerTokenReachesHandlers(t *testing.T) {
	cfg := testConfig()
	handler := NewRouter(Deps{Config: cfg})
	token := mintToken(t, cfg, enums.RoleCustomer)

	rec := perform(t, handler, http.MethodGet, "/api/v1/cart", token)
	if rec.Code == http.StatusUnauthorized || rec.Code == http.StatusForbidden || rec.Code == http.StatusNotFound {
		t.Fatalf("customer cart request should reach the handler, got %d", rec.Code)
	}
}

func TestRouterAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	handler := NewRouter(Deps{Config: cfg})
	customer := mintToken(t, cfg, enums.RoleCustomer)
	admin := mintToken(t, cfg, enums.RoleAdmin)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/admin/products"},
		{http.MethodGet, "/api/v1/admin/orders"},
		{http.MethodPatch, "/api/v1/admin/orders/" + uuid.NewString() + "/status"},
		{http.MethodPatch, "/api/v1/orders/" + uuid.NewString() + "/status"},
		{http.MethodPost, "/api/v1/admin/categories"},
	}
	for _, tc := range paths {
		if rec := perform(t, handler, tc.method, tc.path, customer); rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s with customer token = %d, want 403", tc.method, tc.path, rec.Code)
		}
		rec := perform(t, handler, tc.method, tc.path, admin)
		if rec.Code == http.StatusForbidden || rec.Code == http.StatusUnauthorized || rec.Code == http.StatusNotFound {
			t.Fatalf("%s %s with admin token should reach the handler, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	handler := testRouter(t)

	if rec := perform(t, handler, http.MethodGet, "/api/v1/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route = %d, want 404", rec.Code)
	}
}
