package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/revobtp/revo-server/internal/mirror"
	"github.com/revobtp/revo-server/internal/store"
	"github.com/revobtp/revo-server/internal/transport"
	"github.com/stretchr/testify/require"
)

func testKeysDB(t *testing.T) *mirror.DB {
	t.Helper()
	db, err := mirror.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func TestResolver_DemoToken(t *testing.T) {
	r := &transport.Resolver{DB: testKeysDB(t), DemoCompanyID: "demo-company-id"}

	tenant, err := r.ResolveTenant(context.Background(), transport.DemoToken)
	require.NoError(t, err)
	require.Equal(t, store.ModeLocalDemo, tenant.Mode)
	require.Equal(t, "demo-company-id", tenant.CompanyID)
}

func TestResolver_DemoForcedOverridesRealKeys(t *testing.T) {
	db := testKeysDB(t)
	require.NoError(t, db.InsertAPIKey(context.Background(), "tok", "c1", "u1", ""))
	r := &transport.Resolver{DB: db, DemoForced: true, DemoCompanyID: "demo-company-id"}

	tenant, err := r.ResolveTenant(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, store.ModeLocalDemo, tenant.Mode)
}

func TestResolver_ModeFromCompanyIdentity(t *testing.T) {
	ctx := context.Background()
	db := testKeysDB(t)
	require.NoError(t, db.InsertAPIKey(ctx, "tok-live", "acme", "u1", ""))
	require.NoError(t, db.InsertAPIKey(ctx, "tok-offline", "offline_u2", "u2", ""))
	require.NoError(t, db.InsertAPIKey(ctx, "tok-demo", "demo-company-id", "u3", ""))
	r := &transport.Resolver{DB: db, DemoCompanyID: "demo-company-id"}

	tests := []struct {
		name  string
		token string
		mode  store.Mode
	}{
		{"plain company id is remote", "tok-live", store.ModeRemote},
		{"offline prefix forces local", "tok-offline", store.ModeLocalOffline},
		{"demo prefix forces demo", "tok-demo", store.ModeLocalDemo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, err := r.ResolveTenant(ctx, tt.token)
			require.NoError(t, err)
			require.Equal(t, tt.mode, tenant.Mode)
		})
	}
}

func TestResolver_UnknownKey(t *testing.T) {
	r := &transport.Resolver{DB: testKeysDB(t), DemoCompanyID: "demo-company-id"}

	_, err := r.ResolveTenant(context.Background(), "nope")
	require.ErrorIs(t, err, transport.ErrUnauthorized)
}

func TestAuthMiddleware(t *testing.T) {
	db := testKeysDB(t)
	require.NoError(t, db.InsertAPIKey(context.Background(), "tok", "acme", "u1", ""))
	resolver := &transport.Resolver{DB: db, DemoCompanyID: "demo-company-id"}

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		tenant, ok := transport.TenantFrom(c)
		require.True(t, ok)
		return c.String(http.StatusOK, tenant.CompanyID)
	}, transport.AuthMiddleware(resolver, true, "demo-company-id"))

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "acme", rec.Body.String())
	})
}

func TestAuthMiddleware_DisabledRunsAsDemo(t *testing.T) {
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		tenant, _ := transport.TenantFrom(c)
		return c.String(http.StatusOK, tenant.Mode.String())
	}, transport.AuthMiddleware(nil, false, "demo-company-id"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "local-demo", rec.Body.String())
}
