package parser

import (
	"math"
	"strings"

	"interview-core/internal/domain/entity"
)

// Word is one recognised token from a word-level transcript.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}

var fillerWords = map[string]bool{
	"um":       true,
	"uh":       true,
	"like":     true,
	"so":       true,
	"actually": true,
}

// SpeechMetrics aggregates filler-word usage, mean confidence and speaking
// rate. It returns nil when there are no words to score.
func SpeechMetrics(words []Word, durationSeconds float64) *entity.SpeechMetrics {
	if len(words) == 0 {
		return nil
	}

	var confidence float64
	fillers := 0
	prev := ""
	for _, w := range words {
		confidence += w.Confidence
		tok := normalizeToken(w.Text)
		switch {
		case fillerWords[tok]:
			fillers++
		case tok == "know" && prev == "you":
			fillers++
		}
		prev = tok
	}

	m := &entity.SpeechMetrics{
		FillerWordCount:       fillers,
		AverageWordConfidence: round2(confidence / float64(len(words))),
	}
	if durationSeconds > 0 {
		m.SpeakingRate = round2(float64(len(words)) / durationSeconds)
	}
	return m
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.Trim(s, ` .,!?;:"'`))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
