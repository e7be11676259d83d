package storage

import "interview-coach/internal/dsa"

// SessionResult представляет результат всей сессии интервью
type SessionResult struct {
	SessionID          string         `json:"session_id"`
	Timestamp          string         `json:"timestamp"`
	Mode               string         `json:"mode"`
	Technical          bool           `json:"technical"`
	Answers            []AnswerResult `json:"answers"`
	FeedbackJSON       string         `json:"feedback_json,omitempty"`
	HireabilityScore   *float64       `json:"hireability_score,omitempty"`
	HireabilityVerdict string         `json:"hireability_verdict,omitempty"`
	DSA                *dsa.Summary   `json:"dsa,omitempty"`
}

// AnswerResult представляет один вопрос с ответом и уверенностью
type AnswerResult struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Confidence int    `json:"confidence"`
}
