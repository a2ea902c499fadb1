package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedSurah inserts a surah with the given number. On a shared Postgres database an
// existing row with that number is reused.
func SeedSurah(tb testing.TB, ctx context.Context, tx *gorm.DB, number, versesCount int) *types.Surah {
	tb.Helper()
	var existing types.Surah
	if err := tx.WithContext(ctx).Where("number = ?", number).Limit(1).Find(&existing).Error; err != nil {
		tb.Fatalf("lookup surah: %v", err)
	}
	if existing.ID != 0 {
		return &existing
	}
	s := &types.Surah{
		Number:         number,
		NameArabic:     "سورة",
		NameEnglish:    fmt.Sprintf("Surah %d", number),
		NameIndonesian: fmt.Sprintf("Surat %d", number),
		VersesCount:    versesCount,
		RevelationType: types.RevelationMeccan,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed surah: %v", err)
	}
	return s
}

// SeedFreshSurah inserts a surah with an unused number so parallel Postgres tests do
// not share progress rows.
func SeedFreshSurah(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Surah {
	tb.Helper()
	for i := 0; i < 50; i++ {
		n := 1 + rand.Intn(types.LastSurahNumber)
		var count int64
		if err := tx.WithContext(ctx).Model(&types.Surah{}).Where("number = ?", n).Count(&count).Error; err != nil {
			tb.Fatalf("count surah: %v", err)
		}
		if count == 0 {
			return SeedSurah(tb, ctx, tx, n, 7)
		}
	}
	tb.Fatalf("no free surah number")
	return nil
}

func SeedVerse(tb testing.TB, ctx context.Context, tx *gorm.DB, surahID uint, number int) *types.Verse {
	tb.Helper()
	en := fmt.Sprintf("verse %d", number)
	v := &types.Verse{
		SurahID:     surahID,
		VerseNumber: number,
		TextArabic:  "آية",
		TextEnglish: &en,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed verse: %v", err)
	}
	return v
}

func SeedQari(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, featured bool) *types.Qari {
	tb.Helper()
	q := &types.Qari{
		Name:         name,
		Country:      "Saudi Arabia",
		AudioBaseURL: "https://example.com/audio/" + name,
		IsFeatured:   featured,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed qari: %v", err)
	}
	return q
}

// SeedSession inserts an analyzed session. A nil score leaves accuracy_score null.
func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, surahID uint, score *int, errorTypes ...string) *types.RecitationSession {
	tb.Helper()
	s := &types.RecitationSession{
		UserID:        userID,
		SurahID:       surahID,
		VerseNumber:   1,
		AudioFilePath: "recitations/test.mp3",
		AccuracyScore: score,
		Status:        types.SessionAnalyzed,
	}
	errs := make(datatypes.JSONSlice[types.ErrorEntry], 0, len(errorTypes))
	for _, et := range errorTypes {
		errs = append(errs, types.ErrorEntry{Type: et, Position: "0:01"})
	}
	s.TajwidErrors = errs
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func PtrInt(v int) *int { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
