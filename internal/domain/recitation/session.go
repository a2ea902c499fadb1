package recitation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/domain/catalog"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAnalyzed Status = "analyzed"
	StatusReviewed Status = "reviewed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAnalyzed, StatusReviewed:
		return true
	default:
		return false
	}
}

// Band buckets an accuracy score for display.
type Band string

const (
	BandGreen  Band = "green"
	BandBlue   Band = "blue"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

func ScoreBand(score int) Band {
	switch {
	case score >= 90:
		return BandGreen
	case score >= 80:
		return BandBlue
	case score >= 70:
		return BandYellow
	default:
		return BandRed
	}
}

// ErrorEntry is one flagged mistake; Position is a "m:ss" offset into the recording.
type ErrorEntry struct {
	Type        string `json:"type"`
	Position    string `json:"position"`
	Description string `json:"description"`
}

type Feedback struct {
	Overall      string   `json:"overall"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Analysis is the analyzer's verdict on one recording.
type Analysis struct {
	AccuracyScore       int          `json:"accuracy_score"`
	Feedback            Feedback     `json:"feedback"`
	TajwidErrors        []ErrorEntry `json:"tajwid_errors"`
	PronunciationErrors []ErrorEntry `json:"pronunciation_errors"`
}

// Session is an append-only record of one recitation attempt. The only mutation
// after insert is pending -> analyzed.
type Session struct {
	ID                  uint                            `gorm:"primaryKey" json:"id"`
	UserID              uuid.UUID                       `gorm:"type:uuid;column:user_id;not null;index:idx_session_user_surah,priority:1" json:"user_id"`
	SurahID             uint                            `gorm:"column:surah_id;not null;index:idx_session_user_surah,priority:2" json:"surah_id"`
	Surah               *catalog.Surah                  `gorm:"foreignKey:SurahID;references:ID" json:"surah,omitempty"`
	VerseNumber         int                             `gorm:"column:verse_number;not null" json:"verse_number"`
	AudioFilePath       string                          `gorm:"column:audio_file_path;not null" json:"audio_file_path"`
	AIFeedback          datatypes.JSONType[Feedback]    `gorm:"column:ai_feedback;not null" json:"ai_feedback"`
	AccuracyScore       *int                            `gorm:"column:accuracy_score" json:"accuracy_score"`
	TajwidErrors        datatypes.JSONSlice[ErrorEntry] `gorm:"column:tajwid_errors;not null" json:"tajwid_errors"`
	PronunciationErrors datatypes.JSONSlice[ErrorEntry] `gorm:"column:pronunciation_errors;not null" json:"pronunciation_errors"`
	Status              Status                          `gorm:"column:status;type:varchar(16);not null;default:pending;index" json:"status"`
	CreatedAt           time.Time                       `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time                       `gorm:"not null" json:"updated_at"`

	// ScoreBand is derived from AccuracyScore and empty until analyzed.
	ScoreBand Band `gorm:"-" json:"score_band,omitempty"`
}

func (Session) TableName() string { return "recitation_session" }

// NewPending starts a session for an uploaded recording that has not been analyzed yet.
func NewPending(userID uuid.UUID, surahID uint, verseNumber int, audioPath string) *Session {
	s := &Session{
		UserID:        userID,
		SurahID:       surahID,
		VerseNumber:   verseNumber,
		AudioFilePath: audioPath,
		Status:        StatusPending,
	}
	s.normalize()
	return s
}

// MarkAnalyzed copies the analysis onto a pending session.
func (s *Session) MarkAnalyzed(a Analysis) error {
	if s.Status != StatusPending {
		return fmt.Errorf("session %d: cannot analyze from status %q", s.ID, s.Status)
	}
	score := a.AccuracyScore
	s.AccuracyScore = &score
	s.AIFeedback = datatypes.NewJSONType(a.Feedback)
	s.TajwidErrors = datatypes.JSONSlice[ErrorEntry](a.TajwidErrors)
	s.PronunciationErrors = datatypes.JSONSlice[ErrorEntry](a.PronunciationErrors)
	s.Status = StatusAnalyzed
	s.normalize()
	return nil
}

// ErrorTypes lists the type of every tajwid then pronunciation error, in order.
func (s *Session) ErrorTypes() []string {
	out := make([]string, 0, len(s.TajwidErrors)+len(s.PronunciationErrors))
	for _, e := range s.TajwidErrors {
		out = append(out, e.Type)
	}
	for _, e := range s.PronunciationErrors {
		out = append(out, e.Type)
	}
	return out
}

func (s *Session) BeforeSave(tx *gorm.DB) error {
	if !s.Status.Valid() {
		return fmt.Errorf("invalid session status %q", s.Status)
	}
	if s.AccuracyScore != nil && (*s.AccuracyScore < 0 || *s.AccuracyScore > 100) {
		return fmt.Errorf("accuracy score %d out of range 0..100", *s.AccuracyScore)
	}
	s.normalize()
	return nil
}

func (s *Session) AfterFind(tx *gorm.DB) error {
	s.normalize()
	return nil
}

// normalize turns null JSON collections into empty ones so they encode as [] and
// refreshes the derived score band.
func (s *Session) normalize() {
	s.ScoreBand = ""
	if s.AccuracyScore != nil {
		s.ScoreBand = ScoreBand(*s.AccuracyScore)
	}
	if s.TajwidErrors == nil {
		s.TajwidErrors = datatypes.JSONSlice[ErrorEntry]{}
	}
	if s.PronunciationErrors == nil {
		s.PronunciationErrors = datatypes.JSONSlice[ErrorEntry]{}
	}
	fb := s.AIFeedback.Data()
	if fb.Strengths == nil || fb.Improvements == nil {
		if fb.Strengths == nil {
			fb.Strengths = []string{}
		}
		if fb.Improvements == nil {
			fb.Improvements = []string{}
		}
		s.AIFeedback = datatypes.NewJSONType(fb)
	}
}
