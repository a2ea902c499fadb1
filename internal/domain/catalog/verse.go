package catalog

import "time"

type Verse struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SurahID         uint      `gorm:"column:surah_id;not null;uniqueIndex:idx_verse_surah_number,priority:1" json:"surah_id"`
	VerseNumber     int       `gorm:"column:verse_number;not null;uniqueIndex:idx_verse_surah_number,priority:2" json:"verse_number"`
	TextArabic      string    `gorm:"column:text_arabic;type:text;not null" json:"text_arabic"`
	TextEnglish     *string   `gorm:"column:text_english;type:text" json:"text_english"`
	TextIndonesian  *string   `gorm:"column:text_indonesian;type:text" json:"text_indonesian"`
	Transliteration *string   `gorm:"column:transliteration;type:text" json:"transliteration"`
	AudioURL        *string   `gorm:"column:audio_url" json:"audio_url"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Verse) TableName() string { return "verse" }

// Translation returns the verse text for lang, or "" when no translation exists.
func (v *Verse) Translation(lang string) string {
	var p *string
	switch lang {
	case "indonesian":
		p = v.TextIndonesian
	case "arabic":
		return v.TextArabic
	default:
		p = v.TextEnglish
	}
	if p == nil {
		return ""
	}
	return *p
}
