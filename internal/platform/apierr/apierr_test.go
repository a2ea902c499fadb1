package apierr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationMessageSummarizesFields(t *testing.T) {
	err := Validation(map[string][]string{
		"verse_number": {"The verse number field must be at least 1."},
		"audio_file":   {"The audio file field is required."},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "The audio file field is required. (and 1 more error)", err.Error())
	assert.Len(t, err.Fields, 2)
}

func TestAsFindsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NotFound("surah"))
	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "surah not found", got.Error())

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestUnauthenticatedMessage(t *testing.T) {
	err := Unauthenticated()
	assert.Equal(t, http.StatusUnauthorized, err.Status)
	assert.Equal(t, "Authentication required", err.Error())
}
