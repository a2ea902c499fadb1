package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/i18n"
)

var translator = i18n.MustNew()

// AuthRequired is the 401 body text. Clients match on it, so it is never translated.
const AuthRequired = "Authentication required"

func respondUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": AuthRequired})
}

// RespondErr maps service errors onto HTTP. apierr errors carry their own status;
// coded aggregate errors are mapped by code; anything else is a 500.
func RespondErr(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	if ae, ok := apierr.As(err); ok {
		switch {
		case ae.Status == http.StatusUnauthorized:
			respondUnauthenticated(c)
		case len(ae.Fields) > 0:
			c.AbortWithStatusJSON(ae.Status, ValidationEnvelope{Message: ae.Error(), Errors: ae.Fields})
		default:
			c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{Error: APIError{Message: ae.Error(), Code: ae.Code}})
		}
		return
	}

	if de, ok := domainagg.As(err); ok {
		switch de.Code {
		case domainagg.CodeValidation:
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, validationEnvelope(Lang(c), de))
			return
		case domainagg.CodeUnauthenticated:
			respondUnauthenticated(c)
			return
		case domainagg.CodeNotFound:
			RespondError(c, http.StatusNotFound, apierr.CodeNotFound, errors.New("not found"))
		case domainagg.CodeConflict:
			RespondError(c, http.StatusConflict, string(de.Code), errors.New("conflict"))
		case domainagg.CodeRetryable:
			RespondError(c, http.StatusServiceUnavailable, string(de.Code), errors.New("temporarily unavailable, try again"))
		default:
			RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("internal server error"))
		}
		c.Abort()
		return
	}

	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("internal server error"))
	c.Abort()
}

func validationEnvelope(lang i18n.Language, de *domainagg.Error) ValidationEnvelope {
	field := de.Field
	if field == "" {
		field = "request"
	}
	args := append([]interface{}{translator.Field(lang, field)}, de.Args...)
	msg := translator.Get(lang, de.Message, args...)
	return ValidationEnvelope{
		Message: msg,
		Errors:  map[string][]string{field: {msg}},
	}
}
