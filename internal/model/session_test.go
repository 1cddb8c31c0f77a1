package model

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeQuestions(n int) []Question {
	questions := make([]Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, Question{
			ID:         i,
			Question:   fmt.Sprintf("Question %d?", i),
			Category:   CategoryTechnical,
			Difficulty: "medium",
		})
	}
	return questions
}

func TestSession_AnswerAllQuestionsCompletes(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(3), nil, nil)
	require.Equal(t, StatusInProgress, s.Status())

	for i := 0; i < 2; i++ {
		result, err := s.SubmitAnswer("some answer", nil)
		require.NoError(t, err)
		assert.False(t, result.Completed)
		require.NotNil(t, result.NextQuestion)
		assert.Equal(t, i+2, result.NextQuestion.QuestionNumber)
	}

	result, err := s.SubmitAnswer("final answer", nil)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Nil(t, result.NextQuestion)
	assert.Equal(t, 3, result.Answered)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, StatusCompleted, s.Status())

	summary := s.Summary()
	require.NotNil(t, summary.EndTime)
	assert.False(t, summary.EndTime.Before(summary.StartTime))
}

func TestSession_CurrentQuestionIsPureRead(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(2), nil, nil)

	first, ok := s.CurrentQuestion()
	require.True(t, ok)

	// Peeking any number of times must not move the pointer or end the
	// session.
	for i := 0; i < 10; i++ {
		view, ok := s.CurrentQuestion()
		require.True(t, ok)
		assert.Equal(t, first, view)
	}
	current, total := s.Progress()
	assert.Equal(t, 0, current)
	assert.Equal(t, 2, total)
	assert.Equal(t, StatusInProgress, s.Status())
}

func TestSession_CurrentQuestionAfterTerminal(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(1), nil, nil)
	require.NoError(t, s.Abandon())

	_, ok := s.CurrentQuestion()
	assert.False(t, ok)
}

func TestSession_MixedAnswerSkipCounts(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(3), nil, nil)

	_, err := s.SubmitAnswer("Answer A", nil)
	require.NoError(t, err)
	_, err = s.SkipQuestion()
	require.NoError(t, err)
	result, err := s.SubmitAnswer("Answer B", nil)
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.Equal(t, 2, result.Answered)
	assert.Equal(t, 1, result.Skipped)

	summary := s.Summary()
	require.Len(t, summary.Responses, 3)
	assert.Equal(t, "Answer A", summary.Responses[0].AnswerText)
	assert.True(t, summary.Responses[1].Skipped)
	assert.Empty(t, summary.Responses[1].AnswerText)
	assert.Equal(t, "Answer B", summary.Responses[2].AnswerText)
	assert.Equal(t, 2, summary.AnsweredCount)
	assert.Equal(t, 1, summary.SkippedCount)
	assert.Equal(t, 3, summary.QuestionsAnswered)
}

func TestSession_SkipLastQuestionCompletes(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(1), nil, nil)

	result, err := s.SkipQuestion()
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 0, result.Answered)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, StatusCompleted, s.Status())
}

func TestSession_TerminalRejectsMutations(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		s := NewSession("user-1", nil, makeQuestions(1), nil, nil)
		_, err := s.SubmitAnswer("done", nil)
		require.NoError(t, err)

		_, err = s.SubmitAnswer("again", nil)
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = s.SkipQuestion()
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.ErrorIs(t, s.Abandon(), ErrSessionTerminal)
	})

	t.Run("abandoned", func(t *testing.T) {
		s := NewSession("user-1", nil, makeQuestions(2), nil, nil)
		require.NoError(t, s.Abandon())

		_, err := s.SubmitAnswer("too late", nil)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.ErrorIs(t, s.Abandon(), ErrSessionTerminal)
	})
}

func TestSession_AbandonPreservesLog(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(3), nil, nil)
	_, err := s.SubmitAnswer("only answer", nil)
	require.NoError(t, err)

	require.NoError(t, s.Abandon())
	assert.Equal(t, StatusAbandoned, s.Status())

	summary := s.Summary()
	assert.Len(t, summary.Responses, 1)
	assert.Equal(t, 1, summary.AnsweredCount)
	require.NotNil(t, summary.EndTime)
}

func TestSession_AttachEvaluation(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(2), nil, nil)
	_, err := s.SubmitAnswer("answer one", nil)
	require.NoError(t, err)

	eval := Evaluation{Feedback: "Good structure.", Score: 7}
	assert.True(t, s.AttachEvaluation(1, eval))
	// Question 2 has no logged response yet.
	assert.False(t, s.AttachEvaluation(2, eval))

	summary := s.Summary()
	require.NotNil(t, summary.Responses[0].Evaluation)
	assert.Equal(t, 7, summary.Responses[0].Evaluation.Score)
}

func TestSession_TopicRotationResetsFollowUps(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(4), nil, nil)

	s.RotateTopic(CategoryResumeBased)
	assert.Equal(t, 1, s.RecordFollowUp())
	assert.Equal(t, 2, s.RecordFollowUp())

	// Same topic again: counter untouched.
	s.RotateTopic(CategoryResumeBased)
	assert.Equal(t, 3, s.RecordFollowUp())

	// New topic: counter resets.
	s.RotateTopic(CategoryBehavioral)
	assert.Equal(t, 1, s.RecordFollowUp())

	conv := s.Conversation()
	assert.Equal(t, CategoryBehavioral, conv.PreviousTopic)
	assert.ElementsMatch(t, []Category{CategoryResumeBased, CategoryBehavioral}, conv.TopicsUsed)
}

func TestSession_SkipFlagConsumedOnce(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(2), nil, nil)

	_, err := s.SkipQuestion()
	require.NoError(t, err)

	assert.True(t, s.ConsumeSkipFlag())
	assert.False(t, s.ConsumeSkipFlag())
}

func TestSession_AppendExchangeBuildsTranscript(t *testing.T) {
	s := NewSession("user-1", nil, makeQuestions(2), nil, nil)

	s.AppendExchange("I built a cache layer.", "Nice, how did you handle invalidation?")
	conv := s.Conversation()
	require.Len(t, conv.History, 2)
	assert.Equal(t, "candidate", conv.History[0].Role)
	assert.Equal(t, "interviewer", conv.History[1].Role)
}

func TestSession_ConcurrentSubmissions(t *testing.T) {
	const questions = 5
	const workers = 20

	s := NewSession("user-1", nil, makeQuestions(questions), nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SubmitAnswer("concurrent answer", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInvalidState)
		}
	}

	// Exactly one submission per question lands; the rest bounce off the
	// completed session.
	assert.Equal(t, questions, succeeded)
	assert.Equal(t, StatusCompleted, s.Status())
	assert.Len(t, s.Summary().Responses, questions)
}
