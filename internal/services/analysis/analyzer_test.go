package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(offset int) func(int) int {
	return func(int) int { return offset }
}

func TestStubAnalyzerScoreRange(t *testing.T) {
	a := NewStubAnalyzer(nil)
	for i := 0; i < 500; i++ {
		got, err := a.Analyze(context.Background(), "recitations/u/1.mp3")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.AccuracyScore, 70)
		assert.LessOrEqual(t, got.AccuracyScore, 95)
	}
}

func TestStubAnalyzerBoundaries(t *testing.T) {
	cases := []struct {
		score         int
		tajwid        int
		pronunciation int
	}{
		{70, 2, 1},
		{79, 2, 1},
		{80, 2, 0},
		{84, 2, 0},
		{85, 0, 0},
		{95, 0, 0},
	}
	for _, tc := range cases {
		a := NewStubAnalyzer(fixed(tc.score - MinStubScore))
		got, err := a.Analyze(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, tc.score, got.AccuracyScore)
		assert.Len(t, got.TajwidErrors, tc.tajwid, "score %d", tc.score)
		assert.Len(t, got.PronunciationErrors, tc.pronunciation, "score %d", tc.score)
		assert.NotNil(t, got.TajwidErrors)
		assert.NotNil(t, got.PronunciationErrors)
	}
}

func TestStubVerdictContent(t *testing.T) {
	v := StubVerdict(75)
	assert.Equal(t, "Good recitation! Keep practicing to improve your tajwid.", v.Feedback.Overall)
	assert.Equal(t, []string{"Clear pronunciation", "Good rhythm"}, v.Feedback.Strengths)
	assert.Equal(t, []string{"Work on elongation", "Focus on letter exits"}, v.Feedback.Improvements)
	assert.Equal(t, "ghunnah", v.TajwidErrors[0].Type)
	assert.Equal(t, "0:15", v.TajwidErrors[0].Position)
	assert.Equal(t, "madd", v.TajwidErrors[1].Type)
	assert.Equal(t, "0:32", v.TajwidErrors[1].Position)
	assert.Equal(t, "makhraj", v.PronunciationErrors[0].Type)
	assert.Equal(t, "Letter exit point incorrect", v.PronunciationErrors[0].Description)
}

func TestStubAnalyzerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStubAnalyzer(nil).Analyze(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
