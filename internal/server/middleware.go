package server

import (
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	obscontext "github.com/cemcalis/chiptunnig/internal/observability/context"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "current_user"

// AuthRequired resolves the session cookie to an account and stashes it
// on the request context. Handlers behind it can rely on currentUser.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			s.obsMetrics.RecordAuthDenied(c.Request.Context(), "missing_session")
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.obsMetrics.RecordAuthDenied(c.Request.Context(), "invalid_session")
			AbortWithError(c, err)
			return
		}

		user, err := s.authsvc.CurrentUser(c.Request.Context(), sess.UserID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Request = c.Request.WithContext(
			obscontext.WithActor(c.Request.Context(), user.Role, user.ID.String()))
		c.Next()
	}
}

// Can gates a route on the caller's role capability.
func (s *Server) Can(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), user.Role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok && user != nil
}
