package middleware

import (
	"errors"
	"net/http"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GuardDecisionKey holds the domain.GuardDecision of the current request.
const GuardDecisionKey = "GuardDecision"

// NavigationScopeHeader names the client navigation stream (one tab) a page
// load belongs to. Loads without it never supersede anything.
const NavigationScopeHeader = "X-Navigation-Scope"

// statusClientClosedRequest is nginx's non-standard code for a client that
// hung up before the response was ready.
const statusClientClosedRequest = 499

// AccessGuard gates the page area. A redirect is issued before any handler
// writes, and a GET superseded by a newer one in the same navigation scope is
// answered 409 without rendering.
func AccessGuard(guard domain.AccessGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		path := c.Request.URL.Path

		ctx := c.Request.Context()
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			ctx = domain.WithNavigationScope(ctx, c.GetHeader(NavigationScopeHeader))
		}

		decision, err := guard.Decide(ctx, session, path)
		if err != nil {
			if errors.Is(err, domain.ErrNavigationSuperseded) {
				logger.Log.Debug("Access guard: navigation superseded", "user_id", session.UserID, "path", path)
				c.String(http.StatusConflict, domain.ErrNavigationSuperseded.Error())
			} else {
				c.Status(statusClientClosedRequest)
			}
			c.Abort()
			return
		}

		c.Set(GuardDecisionKey, decision)
		if decision.State == domain.GuardRedirecting {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}
