package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"posmart/internal/common"
)

// Roles issued by the identity provider. Route gating happens upstream; the
// roles ride along in the context for handlers that care.
const (
	RoleSuperAdmin   = "super_admin"
	RoleCompanyAdmin = "company_admin"
)

// JWTCustomClaims is the claim set the identity provider issues: the subject
// is the user id, company_id is the tenant the user belongs to (empty for
// super admins), role is one of the constants above. The triple is trusted
// as-is; credentials were already verified upstream.
type JWTCustomClaims struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// PropagateClaims copies the verified claim triple into the request context
// under the common context keys. Registered as the echo-jwt success handler.
func PropagateClaims(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return
	}

	ctx := c.Request().Context()
	if userID, err := uuid.Parse(claims.Subject); err == nil {
		ctx = context.WithValue(ctx, common.UserIDKey, userID)
	}
	if companyID, err := uuid.Parse(claims.CompanyID); err == nil {
		ctx = context.WithValue(ctx, common.CompanyIDKey, companyID)
	}
	ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
	c.SetRequest(c.Request().WithContext(ctx))
}

// JWTErrorHandler normalizes token failures to a bare 401.
func JWTErrorHandler(c echo.Context, err error) error {
	return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
}
