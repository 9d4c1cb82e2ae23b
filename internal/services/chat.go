package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhcet-ai/advisor-engine/internal/clients/gemini"
	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/retrieval"
	"github.com/zhcet-ai/advisor-engine/internal/rules"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

const ordinanceSystemPrompt = "You are an AMU academic policy expert. " +
	"Explain ordinances clearly and cite specific clauses when relevant."

// generalFallback is the canned reply when small talk cannot reach the
// model.
const generalFallback = "I can help with course registration and university ordinances. " +
	"Ask about eligibility, courses, or registration rules."

// ordinanceExcerptLimit bounds the raw-context reply when generation is
// unavailable.
const ordinanceExcerptLimit = 500

// intentKeywords drive first-match classification; group order is the
// match priority.
var intentKeywords = []struct {
	intent   types.ChatIntent
	keywords []string
}{
	{types.IntentEligibility, []string{"eligib", "can i", "promotion", "advance", "backlog"}},
	{types.IntentCourses, []string{"course", "register", "recommend", "select"}},
	{types.IntentOrdinance, []string{"rule", "ordinance", "regulation", "policy", "clause"}},
}

// ClassifyIntent maps a free-text message onto the advisor's intents.
// First matching keyword group wins; anything unmatched is general
// conversation.
func ClassifyIntent(message string) types.ChatIntent {
	lower := strings.ToLower(message)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.intent
			}
		}
	}
	return types.IntentGeneral
}

// ChatService answers free-text questions by routing them to the
// eligibility, course or ordinance surfaces. The reply always carries
// prose: provider failures degrade to templated text; only broken input
// or catalog gaps surface as errors.
type ChatService interface {
	Chat(ctx context.Context, profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course, message string) (*types.ChatReply, error)
}

type chatService struct {
	log         *logger.Logger
	eligibility EligibilityService
	allocator   AllocatorService
	advisor     AdvisorService
	retriever   retrieval.Retriever
	llm         gemini.Client
}

func NewChatService(
	eligibility EligibilityService,
	allocator AllocatorService,
	advisor AdvisorService,
	ret retrieval.Retriever,
	llm gemini.Client,
	baseLog *logger.Logger,
) (ChatService, error) {
	if eligibility == nil {
		return nil, fmt.Errorf("eligibility service required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("allocator service required")
	}
	if advisor == nil {
		return nil, fmt.Errorf("advisor service required")
	}
	if ret == nil {
		return nil, fmt.Errorf("retriever required")
	}
	if llm == nil {
		return nil, fmt.Errorf("gemini client required")
	}
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &chatService{
		log:         baseLog.With("service", "ChatService"),
		eligibility: eligibility,
		allocator:   allocator,
		advisor:     advisor,
		retriever:   ret,
		llm:         llm,
	}, nil
}

func (s *chatService) Chat(ctx context.Context, profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course, message string) (*types.ChatReply, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: student profile required", errs.ErrInvalidArgument)
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: empty chat message", errs.ErrInvalidArgument)
	}

	intent := ClassifyIntent(message)
	s.log.Debug("Chat message routed", "student_id", profile.StudentID, "intent", intent)

	switch intent {
	case types.IntentEligibility:
		return s.answerEligibility(ctx, profile, records, catalog, message)
	case types.IntentCourses:
		return s.answerCourses(ctx, profile, records, catalog)
	case types.IntentOrdinance:
		return s.answerOrdinance(ctx, message)
	default:
		return s.answerGeneral(ctx, profile, message)
	}
}

func (s *chatService) answerEligibility(ctx context.Context, profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course, message string) (*types.ChatReply, error) {
	verdict, err := s.eligibility.AnalyzeEligibility(ctx, profile, records, catalog)
	if err != nil {
		return nil, err
	}

	policyContext := ""
	var sources []string
	if res, rerr := s.retriever.Retrieve(ctx, message, 2); rerr != nil {
		s.log.Warn("Ordinance retrieval failed for chat, answering without context", "error", rerr)
	} else {
		policyContext = res.Context
		sources = res.Sources
	}

	return &types.ChatReply{
		Response: s.advisor.Explain(ctx, profile, verdict, message, policyContext),
		Intent:   types.IntentEligibility,
		Context:  map[string]interface{}{"verdict": verdict},
		Sources:  sources,
	}, nil
}

// answerCourses is fully deterministic: bucket counts and the standing
// summary, no model call.
func (s *chatService) answerCourses(ctx context.Context, profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course) (*types.ChatReply, error) {
	verdict, err := s.eligibility.AnalyzeEligibility(ctx, profile, records, catalog)
	if err != nil {
		return nil, err
	}
	rec := s.allocator.Recommend(profile, verdict, catalog)

	lines := []string{fmt.Sprintf("Current semester courses: %d available", len(rec.Current))}
	if len(rec.Backlogs) > 0 {
		lines = append(lines, fmt.Sprintf("Backlog courses: %d to clear", len(rec.Backlogs)))
	}
	if len(rec.Advance) > 0 {
		lines = append(lines, fmt.Sprintf("Advanced courses: %d available", len(rec.Advance)))
	}
	lines = append(lines,
		fmt.Sprintf("Current semester credits: %d/%d", rec.CurrentSemesterCredits, rules.MaxSemesterCredits),
		rec.Summary.Message,
	)

	return &types.ChatReply{
		Response: strings.Join(lines, "\n"),
		Intent:   types.IntentCourses,
		Context:  map[string]interface{}{"recommendation": rec},
	}, nil
}

func (s *chatService) answerOrdinance(ctx context.Context, message string) (*types.ChatReply, error) {
	res, err := s.retriever.Retrieve(ctx, message, 3)
	if err != nil {
		s.log.Warn("Ordinance retrieval failed for chat", "error", err)
		res = &types.RetrievalResult{Context: retrieval.NoInformationContext}
	}

	reply := &types.ChatReply{Intent: types.IntentOrdinance, Sources: res.Sources}

	text, gerr := s.llm.GenerateText(ctx, ordinanceSystemPrompt, ordinancePrompt(message, res.Context))
	if gerr == nil && strings.TrimSpace(text) != "" {
		reply.Response = strings.TrimSpace(text)
		return reply, nil
	}
	if gerr != nil {
		s.log.Warn("Ordinance answer generation failed, excerpting context", "error", gerr)
	}
	reply.Response = excerpt(res.Context, ordinanceExcerptLimit)
	return reply, nil
}

func (s *chatService) answerGeneral(ctx context.Context, profile *types.StudentProfile, message string) (*types.ChatReply, error) {
	text, err := s.llm.GenerateText(ctx, advisorSystemPrompt, generalPrompt(profile, message))
	if err == nil && strings.TrimSpace(text) != "" {
		return &types.ChatReply{Response: strings.TrimSpace(text), Intent: types.IntentGeneral}, nil
	}
	if err != nil {
		s.log.Warn("General answer generation failed, using canned reply", "error", err)
	}
	return &types.ChatReply{Response: generalFallback, Intent: types.IntentGeneral}, nil
}

func ordinancePrompt(message, policyContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student Question: %s\n", message)
	b.WriteString("\nRelevant AMU B.Tech Ordinances:\n")
	b.WriteString(policyContext)
	b.WriteString("\n\nProvide a clear explanation based on the ordinances above. Cite specific clauses when relevant.")
	return b.String()
}

func generalPrompt(profile *types.StudentProfile, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s\n", profile.Name)
	fmt.Fprintf(&b, "Branch: %s\n", profile.Branch)
	fmt.Fprintf(&b, "Semester: %d\n", profile.CurrentSemester)
	fmt.Fprintf(&b, "\nQuestion: %s\n", message)
	b.WriteString("\nProvide a helpful response.")
	return b.String()
}

// excerpt truncates prose on a rune boundary, marking the cut.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
