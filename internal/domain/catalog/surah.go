package catalog

import (
	"fmt"
	"time"
)

type RevelationType string

const (
	RevelationMeccan  RevelationType = "meccan"
	RevelationMedinan RevelationType = "medinan"
)

const (
	FirstSurahNumber = 1
	LastSurahNumber  = 114
)

// Surah is seeded reference data; application code never mutates it.
type Surah struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	Number                int            `gorm:"column:number;not null;uniqueIndex" json:"number"`
	NameArabic            string         `gorm:"column:name_arabic;not null" json:"name_arabic"`
	NameEnglish           string         `gorm:"column:name_english;not null" json:"name_english"`
	NameIndonesian        string         `gorm:"column:name_indonesian;not null" json:"name_indonesian"`
	VersesCount           int            `gorm:"column:verses_count;not null" json:"verses_count"`
	RevelationType        RevelationType `gorm:"column:revelation_type;type:varchar(16);not null" json:"revelation_type"`
	DescriptionEnglish    *string        `gorm:"column:description_english;type:text" json:"description_english"`
	DescriptionIndonesian *string        `gorm:"column:description_indonesian;type:text" json:"description_indonesian"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
}

func (Surah) TableName() string { return "surah" }

func (s *Surah) Validate() error {
	if s.Number < FirstSurahNumber || s.Number > LastSurahNumber {
		return fmt.Errorf("surah number %d out of range %d..%d", s.Number, FirstSurahNumber, LastSurahNumber)
	}
	if s.RevelationType != RevelationMeccan && s.RevelationType != RevelationMedinan {
		return fmt.Errorf("surah %d: unknown revelation type %q", s.Number, s.RevelationType)
	}
	if s.VersesCount < 1 {
		return fmt.Errorf("surah %d: verses_count must be positive", s.Number)
	}
	return nil
}

// Name picks the localized name; Arabic callers get the Arabic script name.
func (s *Surah) Name(lang string) string {
	switch lang {
	case "indonesian":
		return s.NameIndonesian
	case "arabic":
		return s.NameArabic
	default:
		return s.NameEnglish
	}
}
