package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/service"
	"sanogestion/internal/session"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	actorKey = "actor"

	// FlashCookie carries a one-shot notice across the login redirect.
	FlashCookie = "sano_flash"
)

// ActorResolver reloads the personnel behind a live session.
type ActorResolver interface {
	Resolve(ctx context.Context, sess session.Session) (*access.Actor, error)
}

// Authenticate attaches the actor of a valid session to the request. It
// never aborts: routes decide with RequireAuth and RequireRole.
func Authenticate(sessions *session.Store, codec *session.Codec, resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := codec.SessionID(c)
		if sid == "" {
			c.Next()
			return
		}

		sess, ok := sessions.Touch(sid)
		if !ok {
			codec.ClearCookie(c)
			c.Next()
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), sess)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				// inactive or deleted accounts lose their session immediately
				sessions.Destroy(sid)
				codec.ClearCookie(c)
			} else {
				log.Printf("WARNING: resolve session: %v", err)
			}
			c.Next()
			return
		}

		c.Set(actorKey, actor)
		c.Request = c.Request.WithContext(access.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// CurrentActor returns the authenticated actor or nil.
func CurrentActor(c *gin.Context) *access.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(*access.Actor); ok {
			return actor
		}
	}
	return nil
}

// WantsHTML reports whether the client is a browser navigation.
func WantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// LoginRedirect is the login URL that returns to the current page.
func LoginRedirect(c *gin.Context) string {
	return "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
}

// Unauthenticated aborts with a login redirect: 303 for browsers, 401 JSON otherwise.
func Unauthenticated(c *gin.Context, message string) {
	target := LoginRedirect(c)
	if WantsHTML(c) {
		c.SetCookie(FlashCookie, url.QueryEscape(message), 60, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		response.Result(response.StatusUnauthenticated, http.StatusUnauthorized, message, target))
}

// Forbidden aborts with the access denied outcome.
func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		response.Result(response.StatusForbidden, http.StatusForbidden, message, ""))
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c) == nil {
			Unauthenticated(c, "Veuillez vous connecter pour accéder à cette page.")
			return
		}
		c.Next()
	}
}

// RequireRole admits the listed roles plus Administrator. It checks
// authentication first so an anonymous request is never reported as forbidden.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch access.Authorize(CurrentActor(c), roles...) {
		case access.Unauthenticated:
			Unauthenticated(c, "Veuillez vous connecter pour accéder à cette page.")
		case access.Forbidden:
			Forbidden(c, "Accès refusé : vous n'avez pas les droits nécessaires.")
		default:
			c.Next()
		}
	}
}
