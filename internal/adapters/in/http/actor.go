package http

import (
	"net/http"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the upstream auth gateway. The gateway has already
// verified the credential; this layer only parses the claims.
const (
	HeaderUserID    = "X-User-Id"
	HeaderTenantID  = "X-Tenant-Id"
	HeaderRole      = "X-Role"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

const actorContextKey = "actor"

// ActorMiddleware parses the identity headers into a kernel.Actor and stores
// it on the request context. Requests without a parseable identity are
// rejected before any handler runs.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header

			userID, err := kernel.UUIDFromString(header.Get(HeaderUserID))
			if err != nil {
				return unauthorized(ctx, "invalid or missing "+HeaderUserID)
			}
			tenantID, err := kernel.UUIDFromString(header.Get(HeaderTenantID))
			if err != nil {
				return unauthorized(ctx, "invalid or missing "+HeaderTenantID)
			}
			role, err := kernel.RoleFromString(header.Get(HeaderRole))
			if err != nil {
				return unauthorized(ctx, "invalid or missing "+HeaderRole)
			}

			actor, err := kernel.NewActor(userID, tenantID, role)
			if err != nil {
				return unauthorized(ctx, "invalid identity")
			}
			actor = actor.WithContact(header.Get(HeaderUserName), header.Get(HeaderUserEmail))

			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

// actorFrom retrieves the actor the middleware stored.
func actorFrom(ctx echo.Context) (kernel.Actor, bool) {
	actor, ok := ctx.Get(actorContextKey).(kernel.Actor)
	return actor, ok
}

func unauthorized(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}
