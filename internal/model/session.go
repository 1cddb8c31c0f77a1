package model

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

var (
	// ErrInvalidState rejects a mutating call on a session that is no longer
	// in progress.
	ErrInvalidState = errors.New("session is not in progress")
	// ErrNoMoreQuestions rejects a submit or skip once the question sequence
	// is exhausted.
	ErrNoMoreQuestions = errors.New("no more questions available")
	// ErrSessionTerminal rejects an abandon on an already-terminal session.
	ErrSessionTerminal = errors.New("session already reached a terminal state")
)

// TurnResult is the outcome of a submit or skip.
type TurnResult struct {
	Completed      bool
	NextQuestion   *QuestionView
	TotalQuestions int
	Answered       int
	Skipped        int
}

// SessionSummary is a point-in-time view of a session, derivable in any
// status. Answered/skipped counts are computed over the response log, so they
// stay accurate for sessions abandoned mid-way.
type SessionSummary struct {
	SessionID         string         `json:"session_id"`
	UserID            string         `json:"user_id"`
	Status            SessionStatus  `json:"status"`
	JobContext        map[string]any `json:"job_context"`
	TotalQuestions    int            `json:"total_questions"`
	QuestionsAnswered int            `json:"questions_answered"`
	AnsweredCount     int            `json:"answered_count"`
	SkippedCount      int            `json:"skipped_count"`
	StartTime         time.Time      `json:"start_time"`
	EndTime           *time.Time     `json:"end_time"`
	DurationSeconds   int            `json:"duration_seconds"`
	Responses         []Response     `json:"responses"`
}

// InterviewSession tracks one candidate's progress through a fixed, ordered
// question sequence. The question list is assigned at creation and never
// mutated; the only pointer-advancing operations are SubmitAnswer and
// SkipQuestion, each of which records exactly one Response, so the response
// log always matches question order.
//
// Every operation takes the session mutex. Two concurrent submissions against
// the same session can never advance the pointer past the same question or
// interleave log appends.
type InterviewSession struct {
	mu sync.Mutex

	id         string
	userID     string
	resumeData map[string]any
	jobContext map[string]any
	metadata   map[string]any

	questions []Question
	responses []Response
	current   int
	status    SessionStatus
	startTime time.Time
	endTime   *time.Time

	conversation ConversationState
}

// NewSession builds an in-progress session seeded with the given question
// sequence. Registering it in the session store is the caller's job.
func NewSession(userID string, resumeData map[string]any, questions []Question, jobContext map[string]any, metadata map[string]any) *InterviewSession {
	if metadata == nil {
		metadata = map[string]any{}
	}
	s := &InterviewSession{
		id:           uuid.NewString(),
		userID:       userID,
		resumeData:   resumeData,
		jobContext:   jobContext,
		metadata:     metadata,
		questions:    questions,
		responses:    make([]Response, 0, len(questions)),
		status:       StatusInProgress,
		startTime:    time.Now().UTC(),
		conversation: newConversationState(),
	}
	log.Info().Str("sessionID", s.id).Str("userID", userID).Int("questions", len(questions)).Msg("Created interview session")
	return s
}

func (s *InterviewSession) ID() string           { return s.id }
func (s *InterviewSession) UserID() string       { return s.userID }
func (s *InterviewSession) StartTime() time.Time { return s.startTime }

func (s *InterviewSession) ResumeData() map[string]any { return s.resumeData }
func (s *InterviewSession) JobContext() map[string]any { return s.jobContext }

func (s *InterviewSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Metadata returns a copy of the free-form metadata map.
func (s *InterviewSession) Metadata() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// SetMetadata records a free-form key, e.g. the external resume record id.
func (s *InterviewSession) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// CurrentQuestion is a pure peek at the question the pointer rests on. It
// never mutates the session; completion is decided by SubmitAnswer and
// SkipQuestion alone. Returns false if the session is terminal or exhausted.
func (s *InterviewSession) CurrentQuestion() (QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentQuestionLocked()
}

func (s *InterviewSession) currentQuestionLocked() (QuestionView, bool) {
	if s.status != StatusInProgress || s.current >= len(s.questions) {
		return QuestionView{}, false
	}
	return QuestionView{
		Question:       s.questions[s.current],
		QuestionNumber: s.current + 1,
		TotalQuestions: len(s.questions),
		SessionID:      s.id,
	}, true
}

// Progress reports the pointer position and the sequence length.
func (s *InterviewSession) Progress() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, len(s.questions)
}

// SubmitAnswer records an answer for the question at the pointer and advances
// it by exactly one. When the advance exhausts the sequence the session
// transitions to completed in the same critical section.
func (s *InterviewSession) SubmitAnswer(answerText string, timeTakenSeconds *int) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(answerText, timeTakenSeconds, false)
}

// SkipQuestion records a skip for the question at the pointer. Skipping sets
// the conversational skip flag and resets the follow-up counter regardless of
// topic: a skip always releases follow-up pressure.
func (s *InterviewSession) SkipQuestion() (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zero := 0
	result, err := s.advanceLocked("", &zero, true)
	if err != nil {
		return result, err
	}
	s.conversation.SkipFlag = true
	s.conversation.FollowUpCount = 0
	return result, nil
}

func (s *InterviewSession) advanceLocked(answerText string, timeTakenSeconds *int, skipped bool) (TurnResult, error) {
	if s.status != StatusInProgress {
		return TurnResult{}, ErrInvalidState
	}
	if s.current >= len(s.questions) {
		return TurnResult{}, ErrNoMoreQuestions
	}

	question := s.questions[s.current]
	s.responses = append(s.responses, Response{
		QuestionID:       question.ID,
		QuestionText:     question.Question,
		AnswerText:       answerText,
		Skipped:          skipped,
		TimeTakenSeconds: timeTakenSeconds,
		Timestamp:        time.Now().UTC(),
	})
	s.current++

	log.Info().Str("sessionID", s.id).Int("questionID", question.ID).Bool("skipped", skipped).Msg("Turn recorded")

	answered, skippedCount := s.countsLocked()
	result := TurnResult{
		TotalQuestions: len(s.questions),
		Answered:       answered,
		Skipped:        skippedCount,
	}

	if s.current >= len(s.questions) {
		s.completeLocked()
		result.Completed = true
		return result, nil
	}

	if view, ok := s.currentQuestionLocked(); ok {
		result.NextQuestion = &view
	}
	return result, nil
}

func (s *InterviewSession) completeLocked() {
	s.status = StatusCompleted
	now := time.Now().UTC()
	s.endTime = &now
	log.Info().Str("sessionID", s.id).Msg("Session completed")
}

// Abandon marks the session abandoned. Terminal sessions are left untouched:
// a completed interview must not be stomped into an abandoned one.
func (s *InterviewSession) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return ErrSessionTerminal
	}
	s.status = StatusAbandoned
	now := time.Now().UTC()
	s.endTime = &now
	log.Info().Str("sessionID", s.id).Msg("Session abandoned")
	return nil
}

// AttachEvaluation merges an evaluation into the logged response for the
// given question. Returns false when no such response exists yet.
func (s *InterviewSession) AttachEvaluation(questionID int, eval Evaluation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.responses {
		if s.responses[i].QuestionID == questionID {
			s.responses[i].Evaluation = &eval
			return true
		}
	}
	return false
}

// RotateTopic applies topic-change detection for the category about to be
// discussed. A change resets the follow-up counter, records the new previous
// topic, and adds the category to the covered set if absent.
func (s *InterviewSession) RotateTopic(category Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category != s.conversation.PreviousTopic {
		s.conversation.FollowUpCount = 0
		s.conversation.PreviousTopic = category
	}
	if !s.conversation.hasTopic(category) {
		s.conversation.TopicsUsed = append(s.conversation.TopicsUsed, category)
	}
}

// RecordFollowUp increments the follow-up counter and returns the new value.
// The session owns the increment so every call site counts the same way.
func (s *InterviewSession) RecordFollowUp() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation.FollowUpCount++
	return s.conversation.FollowUpCount
}

// ConsumeSkipFlag returns the skip flag and clears it. The responder reads it
// exactly once per turn; leaving it set would make every later turn look like
// it followed a skip.
func (s *InterviewSession) ConsumeSkipFlag() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	flag := s.conversation.SkipFlag
	s.conversation.SkipFlag = false
	return flag
}

// AppendExchange records one candidate/interviewer turn pair in the
// transcript.
func (s *InterviewSession) AppendExchange(candidate, interviewer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation.History = append(s.conversation.History,
		Utterance{Role: "candidate", Text: candidate},
		Utterance{Role: "interviewer", Text: interviewer},
	)
}

// Conversation returns a snapshot of the conversational state.
func (s *InterviewSession) Conversation() ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.conversation
	snapshot.TopicsUsed = append([]Category(nil), s.conversation.TopicsUsed...)
	snapshot.History = append([]Utterance(nil), s.conversation.History...)
	return snapshot
}

func (s *InterviewSession) countsLocked() (answered, skipped int) {
	for _, r := range s.responses {
		if r.Skipped {
			skipped++
		} else {
			answered++
		}
	}
	return answered, skipped
}

// Summary derives the session summary. Pure read, valid in any status.
func (s *InterviewSession) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	duration := 0
	if s.endTime != nil {
		duration = int(s.endTime.Sub(s.startTime).Seconds())
	}
	answered, skipped := s.countsLocked()

	return SessionSummary{
		SessionID:         s.id,
		UserID:            s.userID,
		Status:            s.status,
		JobContext:        s.jobContext,
		TotalQuestions:    len(s.questions),
		QuestionsAnswered: s.current,
		AnsweredCount:     answered,
		SkippedCount:      skipped,
		StartTime:         s.startTime,
		EndTime:           s.endTime,
		DurationSeconds:   duration,
		Responses:         append([]Response(nil), s.responses...),
	}
}
