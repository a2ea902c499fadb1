package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogsLoad(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	assert.Equal(t, "Recitation analyzed successfully!", tr.Get(English, "recitation.analyzed"))
	assert.Equal(t, "Bacaan berhasil dianalisis!", tr.Get(Indonesian, "recitation.analyzed"))
	assert.NotEqual(t, tr.Get(English, "recitation.analyzed"), tr.Get(Arabic, "recitation.analyzed"))
}

func TestGetFormatsAndFallsBack(t *testing.T) {
	tr := MustNew()
	assert.Equal(t, "The verse number field must be at least 1.",
		tr.Get(English, "validation.min", tr.Field(English, "verse_number"), 1))
	assert.Equal(t, "missing.key", tr.Get(Arabic, "missing.key"))
	assert.Equal(t, "reciter name", tr.Field(English, "reciter_name"))
}

func TestParse(t *testing.T) {
	cases := map[string]Language{
		"":           English,
		"english":    English,
		"EN":         English,
		"indonesian": Indonesian,
		"id":         Indonesian,
		"ar":         Arabic,
		"klingon":    English,
	}
	for in, want := range cases {
		assert.Equal(t, want, Parse(in), "input %q", in)
	}
}
