package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/revobtp/revo-server/internal/mirror"
	"github.com/revobtp/revo-server/internal/store"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// DemoToken is the bearer token of the built-in demo account.
const DemoToken = "demo"

const tenantContextKey = "tenant"

// TenantResolver resolves a tenant context from a bearer token.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (store.Tenant, error)
}

// Resolver is the API-key backed TenantResolver. It is also the single
// place where the legacy company-id sentinels (offline_, demo-) and the
// device-level demo switch are folded into an explicit tenant mode.
type Resolver struct {
	DB            *mirror.DB
	DemoForced    bool
	DemoCompanyID string
}

// ResolveTenant implements TenantResolver.
func (r *Resolver) ResolveTenant(ctx context.Context, token string) (store.Tenant, error) {
	if r.DemoForced || token == DemoToken {
		return store.NewDemoTenant(r.DemoCompanyID), nil
	}

	creds, err := r.DB.ResolveAPIKey(ctx, token)
	if err != nil {
		if errors.Is(err, mirror.ErrKeyNotFound) {
			return store.Tenant{}, ErrUnauthorized
		}
		return store.Tenant{}, err
	}
	return tenantForCompany(creds.CompanyID, creds.UserID), nil
}

// tenantForCompany maps a company identity onto a tenant mode. Accounts
// provisioned with an offline_ or demo- company id historically meant
// "never subscribe remotely"; the prefix is interpreted here and nowhere
// else.
func tenantForCompany(companyID, userID string) store.Tenant {
	switch {
	case strings.HasPrefix(companyID, "offline_"):
		return store.NewOfflineTenant(companyID, userID)
	case strings.HasPrefix(companyID, "demo-"):
		return store.NewDemoTenant(companyID)
	default:
		return store.NewRemoteTenant(companyID, userID)
	}
}

// AuthMiddleware enforces bearer token authentication and installs the
// resolved tenant into the request context. With auth disabled every
// request runs as the demo tenant.
func AuthMiddleware(resolver TenantResolver, enabled bool, demoCompanyID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				c.Set(tenantContextKey, store.NewDemoTenant(demoCompanyID))
				return next(c)
			}

			auth := c.Request().Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			tenant, err := resolver.ResolveTenant(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
			}

			c.Set(tenantContextKey, tenant)
			return next(c)
		}
	}
}

// TenantFrom returns the tenant installed by AuthMiddleware.
func TenantFrom(c echo.Context) (store.Tenant, bool) {
	tenant, ok := c.Get(tenantContextKey).(store.Tenant)
	return tenant, ok
}
