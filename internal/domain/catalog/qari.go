package catalog

import (
	"fmt"
	"strings"
	"time"
)

type Qari struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null;index" json:"name"`
	NameArabic   *string   `gorm:"column:name_arabic" json:"name_arabic"`
	Country      string    `gorm:"column:country" json:"country"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	AudioBaseURL string    `gorm:"column:audio_base_url" json:"audio_base_url"`
	IsFeatured   bool      `gorm:"column:is_featured;not null;default:false;index" json:"is_featured"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Qari) TableName() string { return "qari" }

// AudioURL joins the reciter's base URL with a zero-padded surah number (e.g. 001.mp3),
// the layout used by the common recitation mirrors.
func (q *Qari) AudioURL(surahNumber int) string {
	base := strings.TrimRight(q.AudioBaseURL, "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/%03d.mp3", base, surahNumber)
}
