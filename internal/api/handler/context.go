package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Claims is the subset of JWT claims the shipping handlers rely on.
type Claims struct {
	TenantID string
	Role     string
}

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both role and tenant_id
// must be present. A token without a tenant identity is structurally valid
// but cannot be scoped to any courier credentials, so it is rejected.
func ctxClaims(c echo.Context) (Claims, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	tenantID, _ := c.Get("tenant_id").(string)
	if tenantID == "" {
		return Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing tenant identity")
	}

	return Claims{TenantID: tenantID, Role: role}, nil
}
