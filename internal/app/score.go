package app

import "dsa-mentor-service/internal/domain"

// Score returns the percentage of questions answered correctly, rounded half up.
// Questions whose correct letter does not match an option never count as correct.
func Score(questions []domain.Question, answers map[int]string) (int, error) {
	if len(questions) == 0 {
		return 0, domain.ErrEmptyQuestionSet
	}
	matches := 0
	for _, q := range questions {
		if isCorrect(q, answers[q.Index]) {
			matches++
		}
	}
	return percent(matches, len(questions)), nil
}

func isCorrect(q domain.Question, selected string) bool {
	return selected != "" && q.WellFormed() && selected == q.CorrectOption
}

// percent computes round(part/whole*100) with half-up rounding in integer arithmetic.
// whole must be positive and 0 <= part.
func percent(part, whole int) int {
	return roundDiv(part*100, whole)
}

// roundDiv is num/den rounded half up for non-negative num and positive den.
func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
