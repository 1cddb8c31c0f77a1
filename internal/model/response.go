package model

import "time"

// Evaluation is the outcome of scoring a single answer. It is produced by the
// answer evaluator and merged into the matching Response after the fact.
type Evaluation struct {
	Feedback         string  `json:"feedback"`
	Score            int     `json:"score"`
	FollowUpQuestion *string `json:"follow_up_question,omitempty"`
}

// Response records the outcome of one question: either the candidate's answer
// or a skip. Responses are appended in question order and never reordered.
type Response struct {
	QuestionID       int         `json:"question_id"`
	QuestionText     string      `json:"question_text"`
	AnswerText       string      `json:"answer_text"`
	Skipped          bool        `json:"skipped"`
	TimeTakenSeconds *int        `json:"time_taken_seconds"`
	Timestamp        time.Time   `json:"timestamp"`
	Evaluation       *Evaluation `json:"evaluation,omitempty"`
}
