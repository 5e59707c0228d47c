package usecase

import (
	"fmt"

	"interview-core/internal/domain/entity"
)

const (
	defaultQuizSize  = 5
	stubFollowUpText = "Can you explain that further or give a real-world example?"
)

// StubQuiz returns n schema-valid placeholder questions about topic.
func StubQuiz(topic string, n int) []entity.QuizItem {
	if n <= 0 {
		n = defaultQuizSize
	}
	items := make([]entity.QuizItem, n)
	for i := range items {
		items[i] = entity.QuizItem{
			Question: fmt.Sprintf("Stub Q%d: What is %s?", i+1, topic),
			Options: entity.QuizOptions{
				A: "Option A",
				B: "Option B",
				C: "Option C",
				D: "Option D",
			},
			Answer:      "A",
			Explanation: "This is a placeholder answer.",
		}
	}
	return items
}

func StubFollowUp() entity.FollowUp {
	return entity.FollowUp{Question: stubFollowUpText}
}
