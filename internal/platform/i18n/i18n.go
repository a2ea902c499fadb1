package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Language string

const (
	English    Language = "english"
	Indonesian Language = "indonesian"
	Arabic     Language = "arabic"
)

var Supported = []Language{English, Indonesian, Arabic}

//go:embed locales/*.yaml
var localeFS embed.FS

type catalogFile struct {
	Messages map[string]string `yaml:"messages"`
	Fields   map[string]string `yaml:"fields"`
}

// Translator resolves message keys per language, falling back to English and
// finally to the key itself.
type Translator struct {
	messages map[Language]map[string]string
	fields   map[Language]map[string]string
}

func New() (*Translator, error) {
	t := &Translator{
		messages: make(map[Language]map[string]string, len(Supported)),
		fields:   make(map[Language]map[string]string, len(Supported)),
	}
	for _, lang := range Supported {
		data, err := localeFS.ReadFile("locales/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s locale: %w", lang, err)
		}
		var cf catalogFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("unmarshal %s locale: %w", lang, err)
		}
		t.messages[lang] = cf.Messages
		t.fields[lang] = cf.Fields
	}
	return t, nil
}

// MustNew panics when the embedded catalogs are malformed.
func MustNew() *Translator {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

// Parse maps a lang query value ("english", "en", "id", ...) to a supported language.
func Parse(raw string) Language {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "indonesian", "id", "in", "bahasa":
		return Indonesian
	case "arabic", "ar":
		return Arabic
	default:
		return English
	}
}

func (t *Translator) Get(lang Language, key string, args ...interface{}) string {
	msg, ok := t.messages[lang][key]
	if !ok {
		msg, ok = t.messages[English][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 && strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Field returns the display name for a request field.
func (t *Translator) Field(lang Language, field string) string {
	if name, ok := t.fields[lang][field]; ok {
		return name
	}
	if name, ok := t.fields[English][field]; ok {
		return name
	}
	return strings.ReplaceAll(field, "_", " ")
}
