package content

import "fmt"

const lessonSystem = "You are an expert Java and Data Structures & Algorithms tutor. Create comprehensive, " +
	"professional, and beginner-friendly lessons. Always use Java code examples. " +
	"Format output with clear sections using markdown."

const mcqSystem = "You are an expert Java and DSA quiz creator. Generate ONLY valid JSON with no additional text or explanation."

const doubtSystem = "You are a helpful DSA tutor. Answer student questions clearly and concisely with examples when helpful."

func lessonPrompt(topic string) string {
	return fmt.Sprintf(`Create a detailed, professional lesson on '%s' focusing on Java implementation. Include these sections using markdown headers:

1. Overview - Clear explanation of the concept
2. Key Concepts - Main principles and ideas
3. Java Implementation - How to implement in Java with built-in classes
4. Code Example - Complete, runnable Java code with detailed comments
5. Time and Space Complexity - Big O analysis
6. Real-World Use Cases - Practical applications
7. Common Pitfalls - What to avoid when coding
8. Study Tips - How to master this topic

Use proper markdown formatting with code blocks for Java code.`, topic)
}

func mcqPrompt(topic string, count int) string {
	return fmt.Sprintf(`Create a JSON array with exactly %d multiple-choice questions about '%s'.

Return ONLY valid JSON. No markdown, no explanations.

Each element must look like:
{"question": "...", "options": ["...", "...", "...", "..."], "correct": "A", "explanation": "..."}

Requirements:
- "question": clear question about %s in Java
- "options": exactly 4 options as strings
- "correct": one letter: A, B, C, or D
- "explanation": why the correct answer is right`, count, topic, topic)
}

func doubtPrompt(doubt, topic string) string {
	if topic == "" {
		return "Student question: " + doubt
	}
	return fmt.Sprintf("Student question related to %s: %s", topic, doubt)
}
