package middleware

import (
	"net/http"
	"strings"
	"time"

	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/domain"
	"candidate-portal/pkg/auth"
	"candidate-portal/pkg/logger"
	"candidate-portal/pkg/security"

	"github.com/gin-gonic/gin"
)

// SessionProvider is the only reader of the session cookies. It attaches a
// *domain.Session to the request context; requests without a valid token get
// an anonymous session. The token claim "role" wins over the user_role cookie.
func SessionProvider(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := &domain.Session{}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie(domain.CookieToken); err == nil {
				tokenString = cookie
			}
		}

		if tokenString != "" {
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Log.Debug("Session: token rejected", "path", c.Request.URL.Path, "error", err)
				security.Default().LogSessionRejected(c.Request.Context(), c.ClientIP(), c.Request.UserAgent(), c.GetString("RequestID"), err.Error())
			} else {
				session.UserID = claims.Subject
				session.Token = tokenString
				session.Role = domain.ParseRole(claims.Role)
				if session.Role == "" {
					cookieRole, _ := c.Cookie(domain.CookieUserRole)
					session.Role = domain.ParseRole(cookieRole)
				}
			}
		}

		c.Request = c.Request.WithContext(domain.WithSession(c.Request.Context(), session))
		c.Set(string(domain.KeySession), session)
		c.Set(string(domain.KeyUserID), session.UserID)
		c.Set(string(domain.KeyUserRole), string(session.Role))
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// CurrentSession returns the session attached by SessionProvider. It is never nil.
func CurrentSession(c *gin.Context) *domain.Session {
	if s := domain.SessionFromContext(c.Request.Context()); s != nil {
		return s
	}
	return &domain.Session{}
}

// RequireSession rejects anonymous API calls.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAuthenticated() {
			response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePageSession sends anonymous visitors of the page area to the sign-in page.
func RequirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, domain.RouteAuthentication)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookies writes the cookies read by SessionProvider.
func SetSessionCookies(c *gin.Context, token string, role domain.Role, ttl time.Duration, secure bool) {
	maxAge := int(ttl.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(domain.CookieToken, token, maxAge, "/", "", secure, true)
	c.SetCookie(domain.CookieUserRole, string(role), maxAge, "/", "", secure, false)
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(domain.CookieToken, "", -1, "/", "", secure, true)
	c.SetCookie(domain.CookieUserRole, "", -1, "/", "", secure, false)
}
