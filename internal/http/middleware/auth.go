package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/auth"
	"fleetfin/internal/domain"
	"fleetfin/internal/utils"
)

const actorKey = "actor"

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}

// CurrentActor reloads the caller named by a token. It returns an
// UnauthorizedError when the user is gone or inactive, and the stored role
// otherwise, so role changes apply before the token expires.
type CurrentActor func(ctx context.Context, claimed domain.Actor) (domain.Actor, error)

// Auth requires a valid Bearer token and stores the caller in the context.
// current may be nil, in which case the token claims are trusted as issued.
func Auth(tokens *auth.Tokens, current CurrentActor) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		actor := claims.Actor()
		if current != nil {
			if actor, err = current(c.Request.Context(), actor); err != nil {
				if domain.IsUnauthorized(err) {
					abortJSON(c, http.StatusUnauthorized, "unauthorized", err.Error())
					return
				}
				utils.LogError(GetRequestID(c), "auth", "reload_user", err)
				abortJSON(c, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the caller set by Auth.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	a, ok := v.(domain.Actor)
	return a, ok
}

// RequirePermission lets the request through only when the caller's role
// grants p. It must run after Auth.
func RequirePermission(p domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := ActorFrom(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		if !a.Role.Can(p) {
			abortJSON(c, http.StatusForbidden, "forbidden", domain.ForbiddenError{Role: string(a.Role), Action: string(p)}.Error())
			return
		}
		c.Next()
	}
}
