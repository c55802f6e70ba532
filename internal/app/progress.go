package app

import "dsa-mentor-service/internal/domain"

// Aggregate summarizes a progress history. Every record counts on its own: a topic
// attempted twice contributes two completions and two scores.
func Aggregate(records []domain.ProgressRecord, totalTopics int) domain.ProgressSummary {
	summary := domain.ProgressSummary{TotalTopics: totalTopics}

	scored, sum := 0, 0
	for _, r := range records {
		if r.Status != domain.StatusCompleted {
			continue
		}
		summary.CompletedCount++
		if r.Score != nil {
			scored++
			sum += clamp(*r.Score)
		}
	}

	if totalTopics > 0 {
		summary.CompletionPercentage = clamp(percent(summary.CompletedCount, totalTopics))
	}
	if scored > 0 {
		summary.AverageScore = roundDiv(sum, scored)
	}
	return summary
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
