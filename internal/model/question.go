package model

// Category classifies an interview question.
type Category string

const (
	CategoryIntroduction Category = "introduction"
	CategoryResumeBased  Category = "resume_based"
	CategoryRoleBased    Category = "role_based"
	CategoryBehavioral   Category = "behavioral"
	CategoryFollowUp     Category = "follow_up"
	CategoryTechnical    Category = "technical"
	CategoryProject      Category = "project"
)

// ValidCategories is the closed set a generated question may carry. Anything
// outside it is normalized to "technical" during validation.
var ValidCategories = []Category{
	CategoryIntroduction,
	CategoryResumeBased,
	CategoryRoleBased,
	CategoryBehavioral,
	CategoryFollowUp,
	CategoryTechnical,
	CategoryProject,
}

// Question is a single generated interview question. It is immutable once a
// session has been seeded with it.
type Question struct {
	ID                      int      `json:"id"`
	Question                string   `json:"question"`
	Category                Category `json:"category"`
	Difficulty              string   `json:"difficulty"`
	FocusArea               string   `json:"focus_area"`
	FollowUp                bool     `json:"follow_up"`
	ExpectedDurationSeconds int      `json:"expected_duration_seconds"`
}

// QuestionView is a Question annotated with its position within a session.
// The annotations live only on the view and never flow back into the stored
// question sequence.
type QuestionView struct {
	Question
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	SessionID      string `json:"session_id"`
}
