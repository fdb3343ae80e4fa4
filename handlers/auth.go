package handlers

import (
	"errors"
	"net/http"

	"cafe-directory/auth"
	"cafe-directory/metrics"
	"cafe-directory/store"

	"github.com/gin-gonic/gin"
)

// RegisterPage renders the registration page
func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": RegisterForm{}})
}

// Register creates a new user account
func (h *Handler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Register",
			"Form":   form,
			"Errors": fieldErrors(err),
		})
		return
	}

	_, err := h.authn.Register(c.Request.Context(), form.Email, form.Name, form.Password)
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		h.setFlash(c, "danger", "You've already signed up with that email, log in instead!")
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.setFlash(c, "success", "Registered successfully, now log in.")
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage renders the login form
func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Form": LoginForm{}})
}

// Login authenticates a user and binds the session
func (h *Handler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Log in",
			"Form":   form,
			"Errors": fieldErrors(err),
		})
		return
	}

	user, token, err := h.authn.Login(c.Request.Context(), form.Email, form.Password)
	metrics.RecordLogin(err)
	switch {
	// The two failures are reported differently, which tells a caller
	// whether an email is registered.
	case errors.Is(err, auth.ErrUnknownUser):
		h.setFlash(c, "danger", "The user does not exist, try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, auth.ErrBadPassword):
		h.setFlash(c, "danger", "Incorrect password, try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.sessions.Start(c, user, token)
	c.Redirect(http.StatusFound, "/all_cafes")
}

// Logout clears the session
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.End(c)
	c.Redirect(http.StatusFound, "/")
}
