package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/internal/model"
)

const defaultQuestionCount = 12

type difficultyProfile struct {
	base       string
	tech       string
	behavioral string
}

var difficultyByLevel = map[string]difficultyProfile{
	"Fresher":   {base: "easy", tech: "easy-medium", behavioral: "easy"},
	"1-3 years": {base: "medium", tech: "medium", behavioral: "medium"},
	"3-5 years": {base: "medium", tech: "medium-hard", behavioral: "medium"},
	"5+ years":  {base: "medium", tech: "hard", behavioral: "medium-hard"},
}

var validDifficulties = map[string]bool{
	"easy": true, "medium": true, "hard": true, "easy-medium": true, "medium-hard": true,
}

// QuestionService produces the fixed, ordered question sequence a session is
// seeded with. Generation happens once, before the session starts; failures
// degrade to a deterministic fallback set instead of erroring.
type QuestionService interface {
	GenerateQuestions(ctx context.Context, resumeData, jobContext map[string]any, numQuestions int) []model.Question
}

type questionService struct {
	gateway LLMGateway
}

func NewQuestionService(gateway LLMGateway) QuestionService {
	return &questionService{gateway: gateway}
}

func (s *questionService) GenerateQuestions(ctx context.Context, resumeData, jobContext map[string]any, numQuestions int) []model.Question {
	if numQuestions <= 0 {
		numQuestions = defaultQuestionCount
	}

	name := stringFromContext(resumeData, "name", "Candidate")
	if name == "Not found" {
		name = "Candidate"
	}
	targetRole := stringFromContext(jobContext, "target_role", "Software Developer")
	experienceLevel := stringFromContext(jobContext, "experience_level", "1-3 years")
	interviewType := stringFromContext(jobContext, "interview_type", "Technical")

	log.Info().Str("name", name).Str("role", targetRole).Str("level", experienceLevel).Int("count", numQuestions).Msg("Generating interview questions")

	prompt := buildGenerationPrompt(name, resumeData, targetRole, experienceLevel, interviewType, numQuestions)

	raw, err := s.gateway.Complete(ctx, prompt, "", 3000, 0.6)
	if err != nil {
		log.Error().Err(err).Msg("LLM gateway failed for question generation")
		return s.fallbackQuestions(name, resumeData, targetRole, numQuestions)
	}

	questions := parseQuestionArray(raw)
	if len(questions) == 0 {
		log.Warn().Msg("Failed to parse generated questions, using fallback")
		return s.fallbackQuestions(name, resumeData, targetRole, numQuestions)
	}

	// The first question is always the fixed introduction, whatever the
	// model produced.
	questions[0] = introductionQuestion(name, targetRole)

	validated := validateQuestions(questions, numQuestions)
	if len(validated) == 0 {
		return s.fallbackQuestions(name, resumeData, targetRole, numQuestions)
	}
	log.Info().Int("count", len(validated)).Msg("Generated interview questions")
	return validated
}

func buildGenerationPrompt(name string, resumeData map[string]any, targetRole, experienceLevel, interviewType string, numQuestions int) string {
	diff, ok := difficultyByLevel[experienceLevel]
	if !ok {
		diff = difficultyByLevel["1-3 years"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert technical interviewer conducting a %s interview for a %s position.\n\n", interviewType, targetRole)
	b.WriteString(summarizeResume(name, resumeData))
	fmt.Fprintf(&b, "\nINTERVIEW CONTEXT:\nTarget Role: %s\nExperience Level: %s\nInterview Type: %s\nTotal Questions Required: %d\n\n", targetRole, experienceLevel, interviewType, numQuestions)
	b.WriteString("Generate the questions following this EXACT structure:\n\n")
	fmt.Fprintf(&b, "SECTION 1 - INTRODUCTION (Q1): warm welcome, ask the candidate to introduce themselves. category \"introduction\", difficulty %q.\n", diff.base)
	fmt.Fprintf(&b, "SECTION 2 - RESUME-BASED TECHNICAL (Q2-Q5): reference their projects and skills BY NAME; alternate a resume_based question with a follow_up probing deeper (mark \"follow_up\": true). difficulty %q.\n", diff.tech)
	fmt.Fprintf(&b, "SECTION 3 - ROLE-SPECIFIC TECHNICAL (Q6-Q9): core concepts, system design, problem solving, best practices for a %s. category \"role_based\", difficulty %q (last one \"hard\").\n", targetRole, diff.tech)
	fmt.Fprintf(&b, "SECTION 4 - BEHAVIORAL (Q10 onwards): teamwork, pressure handling, leadership or career goals. category \"behavioral\", difficulty %q.\n\n", diff.behavioral)
	b.WriteString("Return ONLY a JSON array with NO markdown, NO explanation:\n")
	b.WriteString(`[{"id": 1, "question": "...", "category": "introduction", "difficulty": "easy", "focus_area": "background", "follow_up": false, "expected_duration_seconds": 90}]`)
	b.WriteString("\n\nQUALITY RULES: be conversational, be specific to their resume, no repetition, progressive difficulty.\n")
	fmt.Fprintf(&b, "Generate exactly %d questions as a clean JSON array:", numQuestions)
	return b.String()
}

func summarizeResume(name string, resumeData map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CANDIDATE PROFILE:\nName: %s\n", name)

	if skills := stringSliceFromContext(resumeData, "skills"); len(skills) > 0 {
		if len(skills) > 15 {
			skills = skills[:15]
		}
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(skills, ", "))
	}
	if projects, ok := resumeData["projects"].([]any); ok && len(projects) > 0 {
		b.WriteString("Projects:\n")
		for i, p := range projects {
			if i == 4 {
				break
			}
			if proj, ok := p.(map[string]any); ok {
				title := stringFromContext(proj, "title", "untitled")
				desc := stringFromContext(proj, "description", "")
				if len(desc) > 100 {
					desc = desc[:100]
				}
				fmt.Fprintf(&b, "- %s: %s\n", title, desc)
			}
		}
	}
	if experience, ok := resumeData["experience"].([]any); ok && len(experience) > 0 {
		b.WriteString("Experience:\n")
		for i, e := range experience {
			if i == 3 {
				break
			}
			if exp, ok := e.(map[string]any); ok {
				fmt.Fprintf(&b, "- %s at %s (%s)\n",
					stringFromContext(exp, "title", "N/A"),
					stringFromContext(exp, "company", "N/A"),
					stringFromContext(exp, "duration", ""))
			}
		}
	}
	return b.String()
}

func parseQuestionArray(raw string) []model.Question {
	cleaned := cleanJSONResponse(raw)

	var questions []model.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		log.Error().Err(err).Msg("JSON decode error on generated questions")
		return nil
	}
	return questions
}

// validateQuestions normalizes each generated question: sequential 1-based
// ids, category and difficulty clamped to the closed sets, defaults for
// anything missing. Empty questions are dropped.
func validateQuestions(questions []model.Question, expectedCount int) []model.Question {
	validated := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}

		q.Category = model.Category(strings.ReplaceAll(strings.ToLower(string(q.Category)), " ", "_"))
		if !isValidCategory(q.Category) {
			q.Category = model.CategoryTechnical
		}

		q.Difficulty = strings.ToLower(q.Difficulty)
		if !validDifficulties[q.Difficulty] {
			q.Difficulty = "medium"
		}
		if q.FocusArea == "" {
			q.FocusArea = "general"
		}
		if q.ExpectedDurationSeconds <= 0 {
			q.ExpectedDurationSeconds = 120
		}

		q.ID = len(validated) + 1
		validated = append(validated, q)
		if len(validated) == expectedCount {
			break
		}
	}
	return validated
}

func isValidCategory(c model.Category) bool {
	for _, valid := range model.ValidCategories {
		if c == valid {
			return true
		}
	}
	return false
}

func introductionQuestion(name, targetRole string) model.Question {
	return model.Question{
		ID:                      1,
		Question:                fmt.Sprintf("Hi %s! Welcome to this interview. Please introduce yourself and tell us about your background and journey into %s.", name, targetRole),
		Category:                model.CategoryIntroduction,
		Difficulty:              "easy",
		FocusArea:               "background",
		ExpectedDurationSeconds: 90,
	}
}

func stringSliceFromContext(ctx map[string]any, key string) []string {
	raw, ok := ctx[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// fallbackQuestions builds the deterministic question set used when the
// gateway fails or returns an unparseable payload. It mirrors the structure
// of a generated set: introduction, resume-based, role-based, behavioral.
func (s *questionService) fallbackQuestions(name string, resumeData map[string]any, targetRole string, numQuestions int) []model.Question {
	questions := []model.Question{introductionQuestion(name, targetRole)}

	projectName := ""
	if projects, ok := resumeData["projects"].([]any); ok && len(projects) > 0 {
		if proj, ok := projects[0].(map[string]any); ok {
			projectName = stringFromContext(proj, "title", "")
		}
	}
	if projectName != "" {
		questions = append(questions,
			model.Question{Question: fmt.Sprintf("I see you worked on %s. Can you walk me through the architecture and your role in building it?", projectName), Category: model.CategoryResumeBased, Difficulty: "medium", FocusArea: projectName, ExpectedDurationSeconds: 150},
			model.Question{Question: fmt.Sprintf("What were the biggest challenges you faced while building %s and how did you overcome them?", projectName), Category: model.CategoryFollowUp, Difficulty: "medium", FocusArea: projectName, FollowUp: true, ExpectedDurationSeconds: 120},
		)
	} else {
		questions = append(questions,
			model.Question{Question: "Can you tell me about the most significant project you've worked on? What was your role and what technologies did you use?", Category: model.CategoryResumeBased, Difficulty: "medium", FocusArea: "projects", ExpectedDurationSeconds: 150},
			model.Question{Question: "What challenges did you face in that project and how did you solve them?", Category: model.CategoryFollowUp, Difficulty: "medium", FocusArea: "challenges", FollowUp: true, ExpectedDurationSeconds: 120},
		)
	}

	skills := stringSliceFromContext(resumeData, "skills")
	if len(skills) >= 2 {
		questions = append(questions,
			model.Question{Question: fmt.Sprintf("I notice you have experience with %s. Can you explain how you've applied it in your work and describe a specific use case?", skills[0]), Category: model.CategoryResumeBased, Difficulty: "medium", FocusArea: skills[0], ExpectedDurationSeconds: 120},
			model.Question{Question: fmt.Sprintf("How have you used %s alongside other technologies in your projects? Any integration challenges?", skills[1]), Category: model.CategoryFollowUp, Difficulty: "medium", FocusArea: skills[1], FollowUp: true, ExpectedDurationSeconds: 120},
		)
	} else {
		questions = append(questions,
			model.Question{Question: "Which technology or tool are you most proficient in? How have you applied it in real-world scenarios?", Category: model.CategoryResumeBased, Difficulty: "medium", FocusArea: "technical_skills", ExpectedDurationSeconds: 120},
			model.Question{Question: "Can you walk me through how you keep your technical skills up to date?", Category: model.CategoryFollowUp, Difficulty: "easy", FocusArea: "learning", FollowUp: true, ExpectedDurationSeconds: 90},
		)
	}

	questions = append(questions,
		model.Question{Question: fmt.Sprintf("What do you consider the most important skills for a %s? How do you embody them?", targetRole), Category: model.CategoryRoleBased, Difficulty: "medium", FocusArea: "role_understanding", ExpectedDurationSeconds: 120},
		model.Question{Question: "How do you approach debugging a complex issue in production? Walk me through your process.", Category: model.CategoryRoleBased, Difficulty: "medium", FocusArea: "problem_solving", ExpectedDurationSeconds: 150},
		model.Question{Question: "If you were to design a system from scratch for a specific use case, what factors would you consider first?", Category: model.CategoryRoleBased, Difficulty: "hard", FocusArea: "system_design", ExpectedDurationSeconds: 180},
		model.Question{Question: "How do you ensure code quality and maintainability in your projects?", Category: model.CategoryRoleBased, Difficulty: "medium", FocusArea: "best_practices", ExpectedDurationSeconds: 120},
		model.Question{Question: "Tell me about a time when you had to collaborate closely with a team to deliver a project. What was your approach?", Category: model.CategoryBehavioral, Difficulty: "medium", FocusArea: "teamwork", ExpectedDurationSeconds: 120},
		model.Question{Question: "Describe a situation where you faced a tight deadline or conflicting priorities. How did you handle the pressure?", Category: model.CategoryBehavioral, Difficulty: "medium", FocusArea: "pressure_handling", ExpectedDurationSeconds: 120},
		model.Question{Question: fmt.Sprintf("Why are you interested in this %s position, and where do you see yourself growing in the next few years?", targetRole), Category: model.CategoryBehavioral, Difficulty: "easy", FocusArea: "career_goals", ExpectedDurationSeconds: 90},
	)

	return validateQuestions(questions, numQuestions)
}
