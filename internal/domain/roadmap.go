package domain

// DefaultTopics is the Java DSA learning roadmap, in teaching order.
var DefaultTopics = []string{
	"Java Arrays and ArrayLists",
	"Strings and String Methods in Java",
	"Java Collections - Lists",
	"Java Collections - Sets and Maps",
	"Stacks and Queues in Java",
	"Linked Lists Implementation",
	"Sorting Algorithms in Java",
	"Searching Algorithms",
	"Binary Search Trees in Java",
	"Recursion Fundamentals",
	"Graphs and Graph Traversal",
	"Dynamic Programming in Java",
	"Hash Tables and HashMap",
	"Heaps and Priority Queues",
	"Greedy Algorithms",
	"Backtracking Techniques",
}

// Roadmap is the ordered list of topics a learner works through.
type Roadmap struct {
	topics []string
}

// NewRoadmap builds a roadmap; an empty list falls back to DefaultTopics.
func NewRoadmap(topics []string) Roadmap {
	if len(topics) == 0 {
		topics = DefaultTopics
	}
	cp := make([]string, len(topics))
	copy(cp, topics)
	return Roadmap{topics: cp}
}

// Topics returns a copy of the ordered topics.
func (r Roadmap) Topics() []string {
	cp := make([]string, len(r.topics))
	copy(cp, r.topics)
	return cp
}

// Len is the totalTopics constant used for completion percentage.
func (r Roadmap) Len() int { return len(r.topics) }

// Contains reports whether topic is part of the roadmap.
func (r Roadmap) Contains(topic string) bool {
	for _, t := range r.topics {
		if t == topic {
			return true
		}
	}
	return false
}

// NextTopic returns the first topic without a completed record. When every topic is
// completed the roadmap starts over at the first topic.
func (r Roadmap) NextTopic(history []ProgressRecord) string {
	if len(r.topics) == 0 {
		return ""
	}
	done := make(map[string]struct{}, len(history))
	for _, rec := range history {
		if rec.Status == StatusCompleted {
			done[rec.Topic] = struct{}{}
		}
	}
	for _, t := range r.topics {
		if _, ok := done[t]; !ok {
			return t
		}
	}
	return r.topics[0]
}
