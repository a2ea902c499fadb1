// Package seed loads the reference catalog (surahs, verses, reciters) shipped with
// the binary. Running it twice leaves the same rows behind.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

//go:embed seed.yaml
var catalogYAML []byte

type File struct {
	Qaris  []QariSeed  `yaml:"qaris"`
	Surahs []SurahSeed `yaml:"surahs"`
}

type QariSeed struct {
	Name         string `yaml:"name"`
	NameArabic   string `yaml:"name_arabic"`
	Country      string `yaml:"country"`
	Description  string `yaml:"description"`
	AudioBaseURL string `yaml:"audio_base_url"`
	IsFeatured   bool   `yaml:"is_featured"`
}

type SurahSeed struct {
	Number                int         `yaml:"number"`
	NameArabic            string      `yaml:"name_arabic"`
	NameEnglish           string      `yaml:"name_english"`
	NameIndonesian        string      `yaml:"name_indonesian"`
	VersesCount           int         `yaml:"verses_count"`
	RevelationType        string      `yaml:"revelation_type"`
	DescriptionEnglish    string      `yaml:"description_english"`
	DescriptionIndonesian string      `yaml:"description_indonesian"`
	Verses                []VerseSeed `yaml:"verses"`
}

type VerseSeed struct {
	Number          int    `yaml:"number"`
	Arabic          string `yaml:"arabic"`
	English         string `yaml:"english"`
	Indonesian      string `yaml:"indonesian"`
	Transliteration string `yaml:"transliteration"`
}

// Result counts rows written by one Run.
type Result struct {
	Surahs int
	Verses int
	Qaris  int
}

// Load parses the embedded catalog.
func Load() (*File, error) {
	return Parse(catalogYAML)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal seed catalog: %w", err)
	}
	for _, s := range f.Surahs {
		sur := s.toSurah()
		if err := sur.Validate(); err != nil {
			return nil, err
		}
		for _, v := range s.Verses {
			if v.Number < 1 || v.Number > s.VersesCount {
				return nil, fmt.Errorf("surah %d: verse %d out of range 1..%d", s.Number, v.Number, s.VersesCount)
			}
		}
	}
	return &f, nil
}

// Run upserts the embedded catalog in one transaction.
func Run(ctx context.Context, db *gorm.DB, log *logger.Logger) (Result, error) {
	f, err := Load()
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, db, log, f)
}

// Apply upserts f. Surahs match on number, verses on (surah, verse number) and
// reciters on name.
func Apply(ctx context.Context, db *gorm.DB, log *logger.Logger, f *File) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range f.Surahs {
			row := s.toSurah()
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "number"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name_arabic", "name_english", "name_indonesian", "verses_count",
					"revelation_type", "description_english", "description_indonesian", "updated_at",
				}),
			}).Create(row).Error; err != nil {
				return fmt.Errorf("upsert surah %d: %w", s.Number, err)
			}
			// the returned id is unreliable on the conflict path, so read it back
			var stored types.Surah
			if err := tx.Where("number = ?", s.Number).First(&stored).Error; err != nil {
				return fmt.Errorf("reload surah %d: %w", s.Number, err)
			}
			res.Surahs++

			for _, v := range s.Verses {
				verse := v.toVerse(stored.ID)
				if err := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "surah_id"}, {Name: "verse_number"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"text_arabic", "text_english", "text_indonesian", "transliteration", "updated_at",
					}),
				}).Create(verse).Error; err != nil {
					return fmt.Errorf("upsert verse %d:%d: %w", s.Number, v.Number, err)
				}
				res.Verses++
			}
		}

		for _, q := range f.Qaris {
			row := q.toQari()
			var existing types.Qari
			err := tx.Where(&types.Qari{Name: q.Name}).
				Assign(map[string]interface{}{
					"name":           row.Name,
					"name_arabic":    row.NameArabic,
					"country":        row.Country,
					"description":    row.Description,
					"audio_base_url": row.AudioBaseURL,
					"is_featured":    row.IsFeatured,
				}).
				FirstOrCreate(&existing).Error
			if err != nil {
				return fmt.Errorf("upsert qari %q: %w", q.Name, err)
			}
			res.Qaris++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	log.Info("Catalog seeded", "surahs", res.Surahs, "verses", res.Verses, "qaris", res.Qaris)
	return res, nil
}

func (s SurahSeed) toSurah() *types.Surah {
	return &types.Surah{
		Number:                s.Number,
		NameArabic:            s.NameArabic,
		NameEnglish:           s.NameEnglish,
		NameIndonesian:        s.NameIndonesian,
		VersesCount:           s.VersesCount,
		RevelationType:        types.RevelationType(s.RevelationType),
		DescriptionEnglish:    optional(s.DescriptionEnglish),
		DescriptionIndonesian: optional(s.DescriptionIndonesian),
	}
}

func (v VerseSeed) toVerse(surahID uint) *types.Verse {
	return &types.Verse{
		SurahID:         surahID,
		VerseNumber:     v.Number,
		TextArabic:      v.Arabic,
		TextEnglish:     optional(v.English),
		TextIndonesian:  optional(v.Indonesian),
		Transliteration: optional(v.Transliteration),
	}
}

func (q QariSeed) toQari() *types.Qari {
	return &types.Qari{
		Name:         q.Name,
		NameArabic:   optional(q.NameArabic),
		Country:      q.Country,
		Description:  q.Description,
		AudioBaseURL: q.AudioBaseURL,
		IsFeatured:   q.IsFeatured,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
