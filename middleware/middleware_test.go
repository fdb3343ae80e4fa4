package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cafe-directory/auth"
	"cafe-directory/config"
	"cafe-directory/models"
	"cafe-directory/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sessions *Sessions
	authn    *auth.Authenticator
	user     *models.User
	log      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "mw.db"), quiet)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	authn := auth.NewAuthenticator(
		store.NewUserStore(db),
		auth.NewHasher(config.SchemePBKDF2, 1000),
		auth.NewTokens("secret", time.Hour),
		log,
	)
	user, err := authn.Register(context.Background(), "a@b.com", "Ann", "pw1")
	require.NoError(t, err)

	return &fixture{
		sessions: NewSessions(authn, "session", false, log),
		authn:    authn,
		user:     user,
		log:      &buf,
	}
}

func (f *fixture) router() *gin.Engine {
	r := gin.New()
	r.Use(f.sessions.LoadPrincipal())
	r.GET("/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/login", func(c *gin.Context) {
		_, token, err := f.authn.Login(c.Request.Context(), "a@b.com", "pw1")
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		f.sessions.Start(c, f.user, token)
		c.String(http.StatusOK, "%d", GetUserID(c))
	})
	r.GET("/logout", func(c *gin.Context) {
		f.sessions.End(c)
		c.String(http.StatusOK, "%d", GetUserID(c))
	})
	return r
}

func serve(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" {
			return ck
		}
	}
	return nil
}

func TestSessions_Lifecycle(t *testing.T) {
	f := newFixture(t)
	r := f.router()

	assert.Equal(t, "anonymous", serve(r, "/whoami").Body.String())

	login := serve(r, "/login")
	require.Equal(t, http.StatusOK, login.Code)
	assert.Equal(t, "1", login.Body.String())

	ck := sessionCookie(login)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 3600, ck.MaxAge)

	assert.Equal(t, "a@b.com", serve(r, "/whoami", ck).Body.String())

	logout := serve(r, "/logout", ck)
	assert.Equal(t, "0", logout.Body.String())
	cleared := sessionCookie(logout)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	assert.Contains(t, f.log.String(), "from=anonymous")
	assert.Contains(t, f.log.String(), "to=authenticated")
	assert.Contains(t, f.log.String(), "event=logout")
}

func TestSessions_InvalidCookieIsCleared(t *testing.T) {
	f := newFixture(t)
	r := f.router()

	rec := serve(r, "/whoami", &http.Cookie{Name: "session", Value: "garbage"})
	assert.Equal(t, "anonymous", rec.Body.String())

	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestCurrentUser_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, CurrentUser(c))
	assert.Zero(t, GetUserID(c))

	c.Set(principalKey, &models.User{ID: 4})
	assert.Equal(t, uint(4), GetUserID(c))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, "/ok")
	serve(r, "/boom")

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "path=/ok")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "status=500")
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/edit-cafe/:cafe_id", func(c *gin.Context) { c.Status(http.StatusForbidden) })

	assert.Equal(t, http.StatusForbidden, serve(r, "/edit-cafe/3").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, "/missing").Code)
}
