// Package analysis scores recitation recordings.
package analysis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
)

// Analyzer turns a stored recording into an accuracy verdict.
type Analyzer interface {
	Analyze(ctx context.Context, audioRef string) (types.Analysis, error)
}

const (
	MinStubScore = 70
	MaxStubScore = 95
)

// StubAnalyzer fabricates a plausible verdict without listening to the audio. The
// score is uniform in [MinStubScore, MaxStubScore]; lower scores attract canned
// tajwid and pronunciation errors.
type StubAnalyzer struct {
	mu   sync.Mutex
	intn func(n int) int
}

// NewStubAnalyzer uses intn as its random source; nil seeds one from the clock.
func NewStubAnalyzer(intn func(n int) int) *StubAnalyzer {
	if intn == nil {
		intn = rand.New(rand.NewSource(time.Now().UnixNano())).Intn
	}
	return &StubAnalyzer{intn: intn}
}

func (a *StubAnalyzer) Analyze(ctx context.Context, audioRef string) (types.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return types.Analysis{}, err
	}
	a.mu.Lock()
	score := MinStubScore + a.intn(MaxStubScore-MinStubScore+1)
	a.mu.Unlock()
	return StubVerdict(score), nil
}

// StubVerdict is the deterministic part of the stub for a given score.
func StubVerdict(score int) types.Analysis {
	out := types.Analysis{
		AccuracyScore: score,
		Feedback: types.Feedback{
			Overall:      "Good recitation! Keep practicing to improve your tajwid.",
			Strengths:    []string{"Clear pronunciation", "Good rhythm"},
			Improvements: []string{"Work on elongation", "Focus on letter exits"},
		},
		TajwidErrors:        []types.ErrorEntry{},
		PronunciationErrors: []types.ErrorEntry{},
	}
	if score < 85 {
		out.TajwidErrors = []types.ErrorEntry{
			{Type: "ghunnah", Position: "0:15", Description: "Missing nasal sound"},
			{Type: "madd", Position: "0:32", Description: "Elongation too short"},
		}
	}
	if score < 80 {
		out.PronunciationErrors = []types.ErrorEntry{
			{Type: "makhraj", Position: "0:28", Description: "Letter exit point incorrect"},
		}
	}
	return out
}
