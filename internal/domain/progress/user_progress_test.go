package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreTotalsAverageTruncates(t *testing.T) {
	assert.Equal(t, 0, ScoreTotals{}.Average())
	assert.Equal(t, 86, ScoreTotals{Sum: 260, Count: 3}.Average())
	assert.Equal(t, 89, ScoreTotals{Sum: 179, Count: 2}.Average())
}

func TestRecordSessionFold(t *testing.T) {
	p := New(uuid.New(), 7)
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	p.RecordSession(t0, ScoreTotals{Sum: 90, Count: 1}, []string{"ghunnah", "madd"})
	p.RecordSession(t0.Add(time.Hour), ScoreTotals{Sum: 160, Count: 2}, []string{"madd", "makhraj", "ghunnah"})

	assert.Equal(t, 2, p.TotalSessions)
	assert.Equal(t, 80, p.AverageAccuracy)
	assert.Equal(t, 0, p.VersesCompleted)
	require.NotNil(t, p.LastPracticedAt)
	assert.Equal(t, t0.Add(time.Hour), *p.LastPracticedAt)
	assert.Equal(t, []string{"ghunnah", "madd", "makhraj"}, []string(p.WeakAreas))
}

func TestMergeWeakAreasSkipsBlanksAndDuplicates(t *testing.T) {
	p := &UserProgress{}
	p.MergeWeakAreas("madd", "", "madd")
	assert.Equal(t, []string{"madd"}, []string(p.WeakAreas))
	p.MergeWeakAreas()
	assert.Len(t, p.WeakAreas, 1)
}
