package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

// Authorize is the role gate: it succeeds iff the principal's role is
// in the allow-list. An empty allow-list always denies. The gate never
// inspects entity state.
func Authorize(p Principal, allowed ...Role) error {
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return apperr.ErrForbidden
}

// RequireRole returns middleware that checks the authenticated
// principal's role against the allow-list.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if err := Authorize(p, roles...); err != nil {
				names := make([]string, len(roles))
				for i, r := range roles {
					names[i] = string(r)
				}
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("required role: %s", strings.Join(names, " or ")))
			}
			return next(c)
		}
	}
}

// SelfOrAdmin is the entity-aware gate variant for self-service
// endpoints: the principal must either own the resource or be an
// administrator.
func SelfOrAdmin(p Principal, ownerID uuid.UUID) error {
	if p.Role == RoleAdmin {
		return nil
	}
	if p.SubjectID == ownerID.String() {
		return nil
	}
	return apperr.ErrForbidden
}
