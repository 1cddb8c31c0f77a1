package dto

// GenerateQuestionsRequest asks for a question set from parsed resume data.
type GenerateQuestionsRequest struct {
	ResumeData   map[string]any `json:"resume_data" binding:"required"`
	JobContext   map[string]any `json:"job_context"`
	NumQuestions int            `json:"num_questions"`
}

// CreateSessionRequest starts an interview session. Questions are optional:
// when omitted the server generates a set from the resume data.
type CreateSessionRequest struct {
	UserID       string         `json:"user_id"`
	ResumeData   map[string]any `json:"resume_data" binding:"required"`
	Questions    []QuestionDTO  `json:"questions" binding:"omitempty,dive"`
	JobContext   map[string]any `json:"job_context"`
	Metadata     map[string]any `json:"metadata"`
	NumQuestions int            `json:"num_questions"`
}

// SubmitAnswerRequest submits the candidate's answer for the current
// question. TimeTakenSeconds is optional.
type SubmitAnswerRequest struct {
	Answer           string `json:"answer" binding:"required"`
	TimeTakenSeconds *int   `json:"time_taken_seconds"`
}

type UpsertProfileRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	TargetRole  string `json:"target_role"`
}

type CreateResumeRecordRequest struct {
	FileName   string         `json:"file_name"`
	ParsedData map[string]any `json:"parsed_data" binding:"required"`
}
