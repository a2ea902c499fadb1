package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/i18n"
)

func respond(t *testing.T, lang i18n.Language, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(LangKey, lang)
	RespondErr(c, err)
	return rec
}

func TestRespondErrTranslatesValidation(t *testing.T) {
	err := fmt.Errorf("submit: %w", domainagg.FieldError("op", "verse_number", "validation.min", 1))
	rec := respond(t, i18n.English, err)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ValidationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The verse number field must be at least 1.", body.Message)
	assert.Equal(t, []string{"The verse number field must be at least 1."}, body.Errors["verse_number"])

	rec = respond(t, i18n.Indonesian, domainagg.FieldError("op", "audio_file", "validation.required"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors["audio_file"][0], "berkas audio")
}

func TestRespondErrStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apierr.Unauthenticated(), http.StatusUnauthorized},
		{apierr.Forbidden("nope"), http.StatusForbidden},
		{apierr.NotFound("surah"), http.StatusNotFound},
		{domainagg.NewError(domainagg.CodeUnauthenticated, "op", "", nil), http.StatusUnauthorized},
		{domainagg.NewError(domainagg.CodeNotFound, "op", "", nil), http.StatusNotFound},
		{domainagg.NewError(domainagg.CodeConflict, "op", "", nil), http.StatusConflict},
		{domainagg.NewError(domainagg.CodeRetryable, "op", "", nil), http.StatusServiceUnavailable},
		{domainagg.NewError(domainagg.CodeInternal, "op", "", nil), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := respond(t, i18n.English, tc.err)
		assert.Equal(t, tc.want, rec.Code, "%v", tc.err)
	}
}

func TestUnauthenticatedBodyIgnoresLanguage(t *testing.T) {
	for _, lang := range []i18n.Language{i18n.English, i18n.Indonesian, i18n.Arabic} {
		rec := respond(t, lang, apierr.Unauthenticated())
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String(), "lang %s", lang)

		rec = respond(t, lang, domainagg.NewError(domainagg.CodeUnauthenticated, "op", "", nil))
		assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String(), "lang %s", lang)
	}
}

func TestRespondPageEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/?surah=1&lang=english", nil)
	RespondPage(c, "welcome", gin.H{"language": "english"})

	assert.JSONEq(t, `{"component":"welcome","props":{"language":"english"},"url":"/?surah=1&lang=english"}`, rec.Body.String())
}
