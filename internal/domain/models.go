package domain

import "time"

// Question models one multiple-choice entry of a question set.
type Question struct {
	Index         int      `json:"index" validate:"gte=0"`
	Prompt        string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectOption string   `json:"correct" validate:"required,len=1"`
	Explanation   string   `json:"explanation"`
}

// OptionLetter returns the letter shown for the option at position i (A, B, C, ...).
func OptionLetter(i int) string {
	return string(rune('A' + i))
}

// OptionPosition maps a letter back to its option position, or -1 if it is not a single letter.
func OptionPosition(letter string) int {
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return -1
	}
	return int(letter[0] - 'A')
}

// HasOption reports whether letter names one of the question's options.
func (q Question) HasOption(letter string) bool {
	pos := OptionPosition(letter)
	return pos >= 0 && pos < len(q.Options)
}

// WellFormed reports whether the correct letter points at an existing option.
func (q Question) WellFormed() bool {
	return q.HasOption(q.CorrectOption)
}

// Answer is the learner's selection for one question.
type Answer struct {
	QuestionIndex int    `json:"questionIndex"`
	Letter        string `json:"letter"`
}

// ProgressStatus is the completion state of a topic.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusCompleted  ProgressStatus = "completed"
)

// ProgressRecord is one persisted outcome for a topic.
// Score is present iff Status is completed.
type ProgressRecord struct {
	AttemptID  string         `json:"attemptId,omitempty"`
	Topic      string         `json:"topic"`
	Status     ProgressStatus `json:"status"`
	Score      *int           `json:"score,omitempty"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// CompletedRecord builds the record a submitted attempt emits.
func CompletedRecord(attemptID, topic string, score int, at time.Time) ProgressRecord {
	s := score
	return ProgressRecord{
		AttemptID:  attemptID,
		Topic:      topic,
		Status:     StatusCompleted,
		Score:      &s,
		RecordedAt: at,
	}
}

// ProgressSummary is derived from the full history on every call.
type ProgressSummary struct {
	CompletedCount       int `json:"completedCount"`
	TotalTopics          int `json:"totalTopics"`
	CompletionPercentage int `json:"completionPercentage"`
	AverageScore         int `json:"averageScore"`
}

// Lesson is the daily lesson payload. Content is markdown and is not rendered here.
type Lesson struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}
