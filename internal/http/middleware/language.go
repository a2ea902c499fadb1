package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/quranstudy-backend/internal/http/response"
	"github.com/yungbote/quranstudy-backend/internal/platform/i18n"
)

// Language picks the response language from ?lang, then Accept-Language.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("lang")
		if raw == "" {
			raw = primaryTag(c.GetHeader("Accept-Language"))
		}
		c.Set(response.LangKey, i18n.Parse(raw))
		c.Next()
	}
}

// primaryTag returns the base of the first tag: "id-ID,en;q=0.8" gives "id".
func primaryTag(header string) string {
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	first = strings.Split(first, ";")[0]
	return strings.Split(first, "-")[0]
}
