package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/quranstudy-backend/internal/platform/i18n"
)

// LangKey is the gin context key holding the negotiated i18n.Language.
const LangKey = "lang"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ValidationEnvelope is the 422 body: the first message plus every failure per field.
type ValidationEnvelope struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Page is the envelope consumed by the page-rendering frontend.
type Page struct {
	Component string `json:"component"`
	Props     any    `json:"props"`
	URL       string `json:"url"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondPage(c *gin.Context, component string, props any) {
	c.JSON(http.StatusOK, Page{Component: component, Props: props, URL: c.Request.URL.RequestURI()})
}

// Lang returns the request language chosen by middleware.Language, English by default.
func Lang(c *gin.Context) i18n.Language {
	if v, ok := c.Get(LangKey); ok {
		if lang, ok := v.(i18n.Language); ok {
			return lang
		}
	}
	return i18n.English
}

// Message renders an i18n key in the request language.
func Message(c *gin.Context, key string, args ...interface{}) string {
	return translator.Get(Lang(c), key, args...)
}
