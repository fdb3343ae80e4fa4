// Package app wires the configuration, store, authenticator and HTTP router
// into one application value with an explicit lifecycle.
package app

import (
	"fmt"
	"os"

	"cafe-directory/auth"
	"cafe-directory/config"
	"cafe-directory/handlers"
	"cafe-directory/middleware"
	"cafe-directory/routes"
	"cafe-directory/store"
	"cafe-directory/templates"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App owns every long-lived resource of the server.
type App struct {
	Config *config.Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Users  *store.UserStore
	Cafes  *store.CafeStore
	Auth   *auth.Authenticator
	Router *gin.Engine
}

// New opens the store and builds the router. Call Close when done.
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	db, err := config.OpenDB(cfg.DatabasePath, log)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, DB: db}
	a.Users = store.NewUserStore(db)
	a.Cafes = store.NewCafeStore(db)

	hasher := auth.NewHasher(cfg.PasswordScheme, cfg.PBKDF2Iterations)
	tokens := auth.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	a.Auth = auth.NewAuthenticator(a.Users, hasher, tokens, log)

	sessions := middleware.NewSessions(a.Auth, cfg.SessionCookie, cfg.CookieSecure, log)
	h := handlers.New(a.Cafes, a.Auth, sessions, auth.DefaultPolicy(cfg.AdminID), cfg.ManagerRequiresAdmin, log)

	tmpl, err := templates.Load()
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Metrics())
	r.SetHTMLTemplate(tmpl)
	if err := r.SetTrustedProxies(nil); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("configure proxies: %w", err)
	}
	routes.SetupRoutes(r, h, sessions)
	a.Router = r

	return a, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
