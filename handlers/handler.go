package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"cafe-directory/auth"
	"cafe-directory/middleware"
	"cafe-directory/models"
	"cafe-directory/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves every route. Its dependencies are built once at startup.
type Handler struct {
	cafes    *store.CafeStore
	authn    *auth.Authenticator
	sessions *middleware.Sessions
	policy   auth.Policy
	log      *logrus.Logger

	// guardManager applies the manage_cafes policy to /cafe_manager.
	guardManager bool
}

func New(cafes *store.CafeStore, authn *auth.Authenticator, sessions *middleware.Sessions,
	policy auth.Policy, guardManager bool, log *logrus.Logger) *Handler {
	useFormFieldNames()
	return &Handler{
		cafes:        cafes,
		authn:        authn,
		sessions:     sessions,
		policy:       policy,
		guardManager: guardManager,
		log:          log,
	}
}

// render adds the values every page reads before executing the template.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["Flash"] = h.popFlash(c)
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	c.HTML(status, page, data)
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error.html", gin.H{
		"Status":  status,
		"Title":   http.StatusText(status),
		"Message": message,
	})
	c.Abort()
}

// fail ends the request for an unexpected storage error.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	h.renderError(c, http.StatusInternalServerError, "Something went wrong.")
}

func (h *Handler) forbidden(c *gin.Context) {
	h.renderError(c, http.StatusForbidden, "You don't have permission to access this page.")
}

func (h *Handler) notFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "The requested cafe was not found.")
}

// cafeID parses the :cafe_id path parameter.
func cafeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("cafe_id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Table is a rendered cafe listing.
type Table struct {
	Headers []string
	Rows    []Row
	Manage  bool
}

type Row struct {
	ID    uint
	Cells []Cell
}

type Cell struct {
	Value string
	Link  bool
}

func cafeTable(cafes []models.Cafe, manage bool) Table {
	t := Table{Manage: manage, Rows: make([]Row, 0, len(cafes))}
	for _, col := range models.CafeColumns {
		t.Headers = append(t.Headers, col.Header)
	}
	for i := range cafes {
		cafe := &cafes[i]
		row := Row{ID: cafe.ID, Cells: make([]Cell, 0, len(models.CafeColumns))}
		for _, col := range models.CafeColumns {
			row.Cells = append(row.Cells, Cell{Value: col.Value(cafe), Link: col.Link})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ── Flash messages ──────────────────────────────────────────────────────────

const flashCookie = "flash"

// Flash is a one-shot status message carried across a redirect.
type Flash struct {
	Category string
	Message  string
}

// maxFlashRunes keeps the escaped cookie well under the 4 KiB browsers store.
const maxFlashRunes = 200

func (h *Handler) setFlash(c *gin.Context, category, message string) {
	setFlash(c, h.sessions.Secure(), category, message)
}

func (h *Handler) popFlash(c *gin.Context) *Flash {
	return popFlash(c, h.sessions.Secure())
}

func setFlash(c *gin.Context, secure bool, category, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, category+":"+truncate(message, maxFlashRunes), 0, "/", "", secure, true)
}

func popFlash(c *gin.Context, secure bool) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", secure, true)

	category, message, ok := strings.Cut(raw, ":")
	if !ok {
		return &Flash{Category: "info", Message: raw}
	}
	return &Flash{Category: category, Message: message}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
