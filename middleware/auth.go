package middleware

import (
	"net/http"

	"cafe-directory/auth"
	"cafe-directory/models"
	"cafe-directory/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

// Sessions binds browser sessions to users through a signed cookie.
type Sessions struct {
	authn  *auth.Authenticator
	cookie string
	secure bool
	log    *logrus.Logger
}

func NewSessions(authn *auth.Authenticator, cookieName string, secure bool, log *logrus.Logger) *Sessions {
	return &Sessions{authn: authn, cookie: cookieName, secure: secure, log: log}
}

// LoadPrincipal resolves the session cookie into the current user and
// injects it into context. Stale cookies are cleared and the request
// continues anonymously.
func (s *Sessions) LoadPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user := s.authn.CurrentUser(c.Request.Context(), token)
		if user == nil {
			s.clearCookie(c)
			c.Next()
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// Secure reports whether cookies are marked Secure.
func (s *Sessions) Secure() bool { return s.secure }

// Start binds the session to user.
func (s *Sessions) Start(c *gin.Context, user *models.User, token string) {
	s.transition(c, statemachine.EventLogin, user.ID)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie, token, int(s.authn.Tokens().TTL().Seconds()), "/", "", s.secure, true)
	c.Set(principalKey, user)
}

// End clears the binding. Ending an anonymous session is a no-op apart from
// expiring the cookie.
func (s *Sessions) End(c *gin.Context) {
	s.transition(c, statemachine.EventLogout, GetUserID(c))

	s.clearCookie(c)
	c.Set(principalKey, (*models.User)(nil))
}

func (s *Sessions) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie, "", -1, "/", "", s.secure, true)
}

func (s *Sessions) transition(c *gin.Context, event statemachine.Event, userID uint) {
	from := statemachine.StateOf(CurrentUser(c) != nil)
	to, err := statemachine.Next(from, event)
	if err != nil {
		s.log.WithError(err).Warn("session transition")
		return
	}
	s.log.WithFields(logrus.Fields{
		"from":    from,
		"to":      to,
		"event":   event,
		"user_id": userID,
	}).Info("session transition")
}

// CurrentUser returns the user bound to the request, or nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// GetUserID returns the caller's user ID, or 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
