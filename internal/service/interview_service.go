package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/intervu-ai/backend/internal/model"
	"github.com/intervu-ai/backend/internal/repository"
	"github.com/intervu-ai/backend/internal/store"
)

// AnswerOutcome pairs the per-answer evaluation with the session transition
// it triggered.
type AnswerOutcome struct {
	Evaluation model.Evaluation
	Result     model.TurnResult
}

// ConversationalOutcome is the result of one conversational turn.
type ConversationalOutcome struct {
	InterviewerResponse string
	Completed           bool
	NextQuestion        *model.QuestionView
	ClosingLine         string
}

// SummaryOutcome is the session summary plus the aggregate evaluator pass.
type SummaryOutcome struct {
	Summary    model.SessionSummary
	Assessment SessionAssessment
}

// InterviewService orchestrates the session core against its collaborators:
// question generation on create, evaluation and interviewer responses around
// each turn, and the persistence flush once a session completes. All LLM and
// database traffic happens here, outside the session's critical sections; the
// session only ever receives the results as plain data.
type InterviewService interface {
	CreateSession(ctx context.Context, userID string, resumeData map[string]any, questions []model.Question, jobContext, metadata map[string]any, numQuestions int) (*model.InterviewSession, *model.QuestionView)
	GetSession(sessionID string) (*model.InterviewSession, error)
	SubmitAnswer(ctx context.Context, sessionID, answerText string, timeTakenSeconds *int) (*AnswerOutcome, error)
	ConversationalAnswer(ctx context.Context, sessionID, answerText string, timeTakenSeconds *int) (*ConversationalOutcome, error)
	SkipQuestion(ctx context.Context, sessionID string) (*model.TurnResult, error)
	AbandonSession(sessionID string) error
	SessionSummary(sessionID string) (*SummaryOutcome, error)
	OpeningLine(ctx context.Context, sessionID string) (string, error)
}

type interviewService struct {
	sessions    *store.SessionStore
	questions   QuestionService
	evaluator   EvaluatorService
	interviewer InterviewerService
	interviews  repository.InterviewRepository
	statistics  repository.StatisticsRepository
}

func NewInterviewService(
	sessions *store.SessionStore,
	questions QuestionService,
	evaluator EvaluatorService,
	interviewer InterviewerService,
	interviews repository.InterviewRepository,
	statistics repository.StatisticsRepository,
) InterviewService {
	return &interviewService{
		sessions:    sessions,
		questions:   questions,
		evaluator:   evaluator,
		interviewer: interviewer,
		interviews:  interviews,
		statistics:  statistics,
	}
}

// CreateSession seeds a session with the supplied questions, generating a set
// when none are given, and registers it in the store before returning.
func (s *interviewService) CreateSession(ctx context.Context, userID string, resumeData map[string]any, questions []model.Question, jobContext, metadata map[string]any, numQuestions int) (*model.InterviewSession, *model.QuestionView) {
	if len(questions) == 0 {
		questions = s.questions.GenerateQuestions(ctx, resumeData, jobContext, numQuestions)
	}

	session := model.NewSession(userID, resumeData, questions, jobContext, metadata)
	s.sessions.Put(session)

	var first *model.QuestionView
	if view, ok := session.CurrentQuestion(); ok {
		first = &view
	}
	return session, first
}

func (s *interviewService) GetSession(sessionID string) (*model.InterviewSession, error) {
	return s.sessions.Get(sessionID)
}

// SubmitAnswer evaluates the answer against the question at the pointer,
// advances the session, and merges the evaluation into the logged response.
func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, answerText string, timeTakenSeconds *int) (*AnswerOutcome, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	view, ok := session.CurrentQuestion()
	if !ok {
		// The session is terminal or exhausted; surface the precise reason.
		_, err := session.SubmitAnswer(answerText, timeTakenSeconds)
		return nil, err
	}

	eval := s.evaluator.EvaluateAnswer(ctx, view.Question.Question, answerText, session.JobContext(), &view.Question)

	result, err := session.SubmitAnswer(answerText, timeTakenSeconds)
	if err != nil {
		return nil, err
	}
	session.AttachEvaluation(view.ID, eval)

	if result.Completed {
		s.persistCompleted(ctx, session)
	}
	return &AnswerOutcome{Evaluation: eval, Result: result}, nil
}

// ConversationalAnswer runs one interactive turn: topic rotation for the
// question being answered, the pointer advance, then the interviewer reply
// built from a snapshot of the conversational state. The skip flag is
// consumed exactly once here.
func (s *interviewService) ConversationalAnswer(ctx context.Context, sessionID, answerText string, timeTakenSeconds *int) (*ConversationalOutcome, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	view, ok := session.CurrentQuestion()
	if !ok {
		_, err := session.SubmitAnswer(answerText, timeTakenSeconds)
		return nil, err
	}

	session.RotateTopic(view.Category)
	if view.FollowUp {
		session.RecordFollowUp()
	}

	result, err := session.SubmitAnswer(answerText, timeTakenSeconds)
	if err != nil {
		return nil, err
	}

	skipFlag := session.ConsumeSkipFlag()
	conv := session.Conversation()
	reply := s.interviewer.RespondToAnswer(ctx, ResponderInput{
		CurrentQuestion: view.Question.Question,
		CandidateAnswer: answerText,
		ResumeContext:   session.ResumeData(),
		JobContext:      session.JobContext(),
		FollowUpCount:   conv.FollowUpCount,
		SkipFlag:        skipFlag,
		PreviousTopic:   conv.PreviousTopic,
		TopicsUsed:      conv.TopicsUsed,
	})
	session.AppendExchange(answerText, reply)

	outcome := &ConversationalOutcome{
		InterviewerResponse: reply,
		Completed:           result.Completed,
		NextQuestion:        result.NextQuestion,
	}
	if result.Completed {
		outcome.ClosingLine = s.interviewer.ClosingLine(session.Summary())
		s.persistCompleted(ctx, session)
	}
	return outcome, nil
}

func (s *interviewService) SkipQuestion(ctx context.Context, sessionID string) (*model.TurnResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := session.SkipQuestion()
	if err != nil {
		return nil, err
	}
	if result.Completed {
		s.persistCompleted(ctx, session)
	}
	return &result, nil
}

func (s *interviewService) AbandonSession(sessionID string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Abandon()
}

func (s *interviewService) SessionSummary(sessionID string) (*SummaryOutcome, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	summary := session.Summary()
	return &SummaryOutcome{
		Summary:    summary,
		Assessment: s.evaluator.AggregateSession(summary.Responses),
	}, nil
}

func (s *interviewService) OpeningLine(ctx context.Context, sessionID string) (string, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	return s.interviewer.OpeningLine(ctx, session.ResumeData(), session.JobContext()), nil
}

// persistCompleted republishes a completed session as database rows: the
// interview record first, then the answer rows and the statistics recompute
// in parallel. Flush failures are logged only; persistence problems must
// never interrupt the candidate-facing flow.
func (s *interviewService) persistCompleted(ctx context.Context, session *model.InterviewSession) {
	if s.interviews == nil || s.statistics == nil {
		return
	}

	summary := session.Summary()
	assessment := s.evaluator.AggregateSession(summary.Responses)

	record := &model.InterviewRecord{
		ID:              summary.SessionID,
		UserID:          summary.UserID,
		Status:          string(summary.Status),
		JobContext:      summary.JobContext,
		TotalQuestions:  summary.TotalQuestions,
		AnsweredCount:   summary.AnsweredCount,
		SkippedCount:    summary.SkippedCount,
		OverallScore:    &assessment.OverallScore,
		PerformanceTier: assessment.PerformanceTier,
		DurationSeconds: summary.DurationSeconds,
		StartedAt:       summary.StartTime,
		EndedAt:         summary.EndTime,
	}
	if resumeID, ok := session.Metadata()["resume_id"].(string); ok && resumeID != "" {
		record.ResumeID = &resumeID
	}

	if err := s.interviews.Create(record); err != nil {
		log.Error().Err(err).Str("sessionID", summary.SessionID).Msg("Failed to persist completed session")
		return
	}

	answers := make([]model.AnswerRecord, 0, len(summary.Responses))
	for _, r := range summary.Responses {
		answer := model.AnswerRecord{
			InterviewRecordID: record.ID,
			QuestionID:        r.QuestionID,
			QuestionText:      r.QuestionText,
			AnswerText:        r.AnswerText,
			Skipped:           r.Skipped,
			TimeTakenSeconds:  r.TimeTakenSeconds,
		}
		if r.Evaluation != nil {
			answer.Feedback = r.Evaluation.Feedback
			score := r.Evaluation.Score
			answer.Score = &score
		}
		answers = append(answers, answer)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.interviews.CreateAnswers(answers)
	})
	g.Go(func() error {
		_, err := s.statistics.RecomputeForUser(summary.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("sessionID", summary.SessionID).Msg("Failed to flush session results")
		return
	}
	log.Info().Str("sessionID", summary.SessionID).Int("answers", len(answers)).Msg("Session results persisted")
}
