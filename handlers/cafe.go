package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"cafe-directory/auth"
	"cafe-directory/metrics"
	"cafe-directory/middleware"
	"cafe-directory/store"

	"github.com/gin-gonic/gin"
)

// ── Listing ──────────────────────────────────────────────────────────────────

// ListCafes renders every cafe (public)
func (h *Handler) ListCafes(c *gin.Context) {
	cafes, err := h.cafes.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "cafes.html", gin.H{
		"Title": "All cafes",
		"Table": cafeTable(cafes, false),
	})
}

// ManageCafes renders the listing with edit and delete controls
func (h *Handler) ManageCafes(c *gin.Context) {
	if h.guardManager {
		if err := h.policy.Authorize(middleware.CurrentUser(c), auth.ActionManageCafes); err != nil {
			h.forbidden(c)
			return
		}
	}

	cafes, err := h.cafes.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "cafe_manager.html", gin.H{
		"Title": "Manage cafes",
		"Table": cafeTable(cafes, true),
	})
}

// ── Add ──────────────────────────────────────────────────────────────────────

// authorizeAdd sends anonymous callers to the login page.
func (h *Handler) authorizeAdd(c *gin.Context) bool {
	switch err := h.policy.Authorize(middleware.CurrentUser(c), auth.ActionAddCafe); {
	case err == nil:
		return true
	case errors.Is(err, auth.ErrUnauthenticated):
		c.Redirect(http.StatusFound, "/login")
	default:
		h.forbidden(c)
	}
	return false
}

// AddCafeForm renders an empty cafe form
func (h *Handler) AddCafeForm(c *gin.Context) {
	if !h.authorizeAdd(c) {
		return
	}
	h.renderCafeForm(c, http.StatusOK, CafeForm{}, nil, "", 0)
}

// AddCafe validates the form and inserts a cafe owned by the caller
func (h *Handler) AddCafe(c *gin.Context) {
	if !h.authorizeAdd(c) {
		return
	}

	var form CafeForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderCafeForm(c, http.StatusBadRequest, form, fieldErrors(err), "", 0)
		return
	}

	authorID := middleware.GetUserID(c)
	cafe, err := h.cafes.Create(c.Request.Context(), form.Fields(), &authorID)
	metrics.RecordCatalogWrite("create", err)
	switch {
	case errors.Is(err, store.ErrDuplicateName):
		msg := fmt.Sprintf("A cafe with the title '%s' already exists.", form.Name)
		h.renderCafeForm(c, http.StatusConflict, form, nil, msg, 0)
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.setFlash(c, "success", fmt.Sprintf("Cafe %s added successfully!", cafe.Name))
	c.Redirect(http.StatusFound, "/all_cafes")
}

// ── Edit & delete (admin) ────────────────────────────────────────────────────

// authorizeAdmin checks an admin-only action. Anonymous callers get 403 too.
func (h *Handler) authorizeAdmin(c *gin.Context, action auth.Action) bool {
	if err := h.policy.Authorize(middleware.CurrentUser(c), action); err != nil {
		h.forbidden(c)
		return false
	}
	return true
}

// EditCafeForm renders the form prefilled from the stored cafe
func (h *Handler) EditCafeForm(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if !h.authorizeAdmin(c, auth.ActionEditCafe) {
		return
	}

	cafe, err := h.cafes.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderCafeForm(c, http.StatusOK, cafeFormFrom(cafe), nil, "", cafe.ID)
}

// EditCafe validates the form and updates the cafe
func (h *Handler) EditCafe(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if !h.authorizeAdmin(c, auth.ActionEditCafe) {
		return
	}

	var form CafeForm
	if err := c.ShouldBind(&form); err != nil {
		// An unknown id is still a 404, not a form error.
		if _, getErr := h.cafes.Get(c.Request.Context(), id); errors.Is(getErr, store.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.renderCafeForm(c, http.StatusBadRequest, form, fieldErrors(err), "", id)
		return
	}

	cafe, err := h.cafes.Update(c.Request.Context(), id, form.Fields())
	metrics.RecordCatalogWrite("update", err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.notFound(c)
		return
	case errors.Is(err, store.ErrDuplicateName):
		msg := fmt.Sprintf("A cafe with the name '%s' already exists.", form.Name)
		h.renderCafeForm(c, http.StatusConflict, form, nil, msg, id)
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.setFlash(c, "success", fmt.Sprintf("Cafe %s edited successfully!", cafe.Name))
	c.Redirect(http.StatusFound, "/all_cafes")
}

// DeleteCafe removes the cafe and returns to the manager view
func (h *Handler) DeleteCafe(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if !h.authorizeAdmin(c, auth.ActionDeleteCafe) {
		return
	}

	cafe, err := h.cafes.Delete(c.Request.Context(), id)
	metrics.RecordCatalogWrite("delete", err)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setFlash(c, "success", fmt.Sprintf("Cafe %s successfully deleted!", cafe.Name))
	c.Redirect(http.StatusFound, "/cafe_manager")
}

func (h *Handler) renderCafeForm(c *gin.Context, status int, form CafeForm, errs map[string]string, errorMessage string, id uint) {
	if errs == nil {
		errs = map[string]string{}
	}
	if msg, ok := errs[formErrorKey]; ok && errorMessage == "" {
		errorMessage = msg
	}
	title := "Add a cafe"
	if id != 0 {
		title = "Edit cafe"
	}
	h.render(c, status, "add_cafe.html", gin.H{
		"Title":        title,
		"Form":         form,
		"Errors":       errs,
		"ErrorMessage": errorMessage,
		"IsEdit":       id != 0,
		"CafeID":       id,
	})
}
