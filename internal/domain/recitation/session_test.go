package recitation

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingEncodesEmptyCollections(t *testing.T) {
	s := NewPending(uuid.New(), 1, 1, "recitations/x/1.wav")
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []any{}, decoded["tajwid_errors"])
	assert.Equal(t, []any{}, decoded["pronunciation_errors"])
	assert.Nil(t, decoded["accuracy_score"])
	assert.Equal(t, "pending", decoded["status"])
	assert.NotContains(t, decoded, "score_band")
}

func TestMarkAnalyzedOnlyFromPending(t *testing.T) {
	s := NewPending(uuid.New(), 1, 2, "k")
	a := Analysis{
		AccuracyScore: 78,
		Feedback:      Feedback{Overall: "ok"},
		TajwidErrors:  []ErrorEntry{{Type: "madd", Position: "0:32"}},
		PronunciationErrors: []ErrorEntry{
			{Type: "makhraj", Position: "0:28"},
		},
	}
	require.NoError(t, s.MarkAnalyzed(a))
	assert.Equal(t, StatusAnalyzed, s.Status)
	require.NotNil(t, s.AccuracyScore)
	assert.Equal(t, 78, *s.AccuracyScore)
	assert.Equal(t, []string{"madd", "makhraj"}, s.ErrorTypes())
	assert.Equal(t, []string{}, s.AIFeedback.Data().Strengths)
	assert.Equal(t, BandYellow, s.ScoreBand)

	assert.Error(t, s.MarkAnalyzed(a))
}

func TestScoreBand(t *testing.T) {
	cases := map[int]Band{100: BandGreen, 90: BandGreen, 89: BandBlue, 80: BandBlue, 79: BandYellow, 70: BandYellow, 69: BandRed, 0: BandRed}
	for score, want := range cases {
		assert.Equal(t, want, ScoreBand(score), "score %d", score)
	}
}

func TestScoreBandEncodedAfterLoad(t *testing.T) {
	score := 92
	s := &Session{Status: StatusAnalyzed, AccuracyScore: &score}
	require.NoError(t, s.AfterFind(nil))
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"score_band":"green"`)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusReviewed.Valid())
	assert.False(t, Status("archived").Valid())
}
