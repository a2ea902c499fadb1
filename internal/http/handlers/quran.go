package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/quranstudy-backend/internal/http/response"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/quranstudy-backend/internal/services"
)

type QuranHandler struct {
	catalog services.CatalogService
	users   services.UserService
}

// NewQuranHandler serves the public pages. users may be nil, in which case pages
// never carry the signed-in user.
func NewQuranHandler(catalog services.CatalogService, users services.UserService) *QuranHandler {
	return &QuranHandler{catalog: catalog, users: users}
}

// withAuth fills the shared auth props when OptionalAuth attached a caller. A
// stale or deleted user renders the page anonymously.
func (h *QuranHandler) withAuth(c *gin.Context, page *services.WelcomePage) *services.WelcomePage {
	if h.users == nil {
		return page
	}
	if _, ok := ctxutil.UserID(c.Request.Context()); !ok {
		return page
	}
	if me, err := h.users.GetMe(c.Request.Context()); err == nil {
		page.Auth.User = me
	}
	return page
}

// GET /?surah=&lang=
func (h *QuranHandler) Welcome(c *gin.Context) {
	var surahID *uint
	if raw := c.Query("surah"); raw != "" {
		// an unparseable selection behaves like an unknown surah
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			v := uint(id)
			surahID = &v
		}
	}
	page, err := h.catalog.WelcomePage(c.Request.Context(), response.Lang(c), surahID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, "welcome", h.withAuth(c, page))
}

// GET /surah/:id
func (h *QuranHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.RespondErr(c, apierr.NotFound("surah"))
		return
	}
	page, err := h.catalog.SurahPage(c.Request.Context(), response.Lang(c), uint(id))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, "welcome", h.withAuth(c, page))
}
