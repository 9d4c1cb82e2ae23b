package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhcet-ai/advisor-engine/internal/clients/gemini"
	"github.com/zhcet-ai/advisor-engine/internal/observability"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/retrieval"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// minContextChars is the usefulness floor for retrieved ordinance text.
// Below it the composer skips the model and answers from templates.
const minContextChars = 50

// maxRecommendations caps the advice list parsed from model output.
const maxRecommendations = 3

const advisorSystemPrompt = "You are an academic advisor for AMU B.Tech students. " +
	"Ground every answer in the supplied ordinance excerpts and the student's standing. " +
	"Be concise and supportive."

// AdvisorService composes natural-language advice from a verdict and
// retrieved ordinance text. Generation is a single attempt with no retry;
// every failure degrades to deterministic templated text, so callers
// always receive non-empty, policy-consistent prose and never an error.
type AdvisorService interface {
	Recommendations(ctx context.Context, verdict *types.EligibilityVerdict) []string
	Explain(ctx context.Context, profile *types.StudentProfile, verdict *types.EligibilityVerdict, question, policyContext string) string
}

type advisorService struct {
	log       *logger.Logger
	llm       gemini.Client
	retriever retrieval.Retriever
	metrics   *observability.Metrics
}

func NewAdvisorService(llm gemini.Client, ret retrieval.Retriever, metrics *observability.Metrics, baseLog *logger.Logger) (AdvisorService, error) {
	if llm == nil {
		return nil, fmt.Errorf("gemini client required")
	}
	if ret == nil {
		return nil, fmt.Errorf("retriever required")
	}
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &advisorService{
		log:       baseLog.With("service", "AdvisorService"),
		llm:       llm,
		retriever: ret,
		metrics:   metrics,
	}, nil
}

// Recommendations returns 1-3 advice lines for the verdict. Ordinance
// context is retrieved by standing: promotion rules for critical risk,
// advancement rules for advance-eligible students. Without useful context
// the rule-derived templates answer directly.
func (s *advisorService) Recommendations(ctx context.Context, verdict *types.EligibilityVerdict) []string {
	policyContext := s.retrieveForVerdict(ctx, verdict)
	if len(policyContext) < minContextChars {
		s.metrics.IncComposerFallback()
		return fallbackRecommendations(verdict)
	}

	raw, err := s.llm.GenerateText(ctx, advisorSystemPrompt, recommendationPrompt(verdict, policyContext))
	if err != nil {
		s.log.Warn("Recommendation generation failed, using templated advice", "error", err)
		s.metrics.IncComposerFallback()
		return []string{"Register for current semester courses", "Maintain CGPA above 7.5"}
	}
	recs := parseRecommendationLines(raw)
	if len(recs) == 0 {
		s.metrics.IncComposerFallback()
		return []string{"Register for current semester courses", "Maintain CGPA above 7.5"}
	}
	return recs
}

// Explain produces a short prose explanation of the verdict for the chat
// surface, grounded in the student's question and any retrieved ordinance
// text. Model first, template on any failure.
func (s *advisorService) Explain(ctx context.Context, profile *types.StudentProfile, verdict *types.EligibilityVerdict, question, policyContext string) string {
	text, err := s.llm.GenerateText(ctx, advisorSystemPrompt, explainPrompt(profile, verdict, question, policyContext))
	if err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	} else {
		s.log.Warn("Explanation generation failed, using templated summary", "error", err)
	}
	s.metrics.IncComposerFallback()
	return explainFallback(verdict)
}

func (s *advisorService) retrieveForVerdict(ctx context.Context, verdict *types.EligibilityVerdict) string {
	var (
		res *types.RetrievalResult
		err error
	)
	switch {
	case verdict.RiskLevel == types.RiskCritical:
		res, err = s.retriever.PromotionRules(ctx)
	case verdict.CanAdvance:
		res, err = s.retriever.AdvancementRules(ctx)
	default:
		return ""
	}
	if err != nil {
		s.log.Warn("Ordinance retrieval failed, composing without context", "error", err)
		return ""
	}
	return res.Context
}

// fallbackRecommendations mirrors the rule outcomes without a model.
// Never empty: an unremarkable verdict still yields an on-track line.
func fallbackRecommendations(verdict *types.EligibilityVerdict) []string {
	var recs []string
	if verdict.RiskLevel == types.RiskCritical {
		recs = append(recs, "URGENT: meet with your advisor immediately.")
	} else if verdict.HasBacklogs {
		recs = append(recs, "Clear backlog courses this semester.")
	}
	if verdict.CanAdvance {
		recs = append(recs, "You can register for advanced courses.")
	}
	if len(recs) == 0 {
		recs = append(recs, "You are on track. Register for current semester courses.")
	}
	return recs
}

// parseRecommendationLines extracts up to three advice lines from model
// output, dropping headings and stripping bullet markers.
func parseRecommendationLines(raw string) []string {
	var recs []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "• "} {
			line = strings.TrimPrefix(line, marker)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		recs = append(recs, line)
		if len(recs) == maxRecommendations {
			break
		}
	}
	return recs
}

func recommendationPrompt(verdict *types.EligibilityVerdict, policyContext string) string {
	var b strings.Builder
	b.WriteString("Student Profile:\n")
	fmt.Fprintf(&b, "- Semester: %d\n", verdict.CurrentSemester)
	fmt.Fprintf(&b, "- CGPA: %.2f\n", verdict.CGPA)
	fmt.Fprintf(&b, "- Earned Credits: %d\n", verdict.TotalEarnedCredits)
	fmt.Fprintf(&b, "- Has Backlogs: %t\n", verdict.HasBacklogs)
	fmt.Fprintf(&b, "- Can Advance: %t\n", verdict.CanAdvance)
	fmt.Fprintf(&b, "- Risk Level: %s\n", verdict.RiskLevel)
	b.WriteString("\nRelevant AMU Ordinances:\n")
	b.WriteString(policyContext)
	b.WriteString("\n\nGenerate 2-3 specific, actionable recommendations for this student. Format as bullet points.")
	return b.String()
}

func explainPrompt(profile *types.StudentProfile, verdict *types.EligibilityVerdict, question, policyContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s\n", profile.Name)
	fmt.Fprintf(&b, "Semester: %d\n", verdict.CurrentSemester)
	fmt.Fprintf(&b, "CGPA: %.2f\n", verdict.CGPA)
	fmt.Fprintf(&b, "Credits: %d\n", verdict.TotalEarnedCredits)
	fmt.Fprintf(&b, "\nEligibility Status: %s\n", verdict.Status)
	fmt.Fprintf(&b, "Risk Level: %s\n", verdict.RiskLevel)
	for _, w := range verdict.Warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	if policyContext != "" {
		b.WriteString("\nRelevant AMU Ordinances:\n")
		b.WriteString(policyContext)
		b.WriteString("\n")
	}
	if question != "" {
		fmt.Fprintf(&b, "\nStudent Question: %s\n", question)
	}
	b.WriteString("\nProvide a clear, helpful answer based on the student's eligibility and AMU ordinances.")
	return b.String()
}

func explainFallback(verdict *types.EligibilityVerdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your current status, you have %d earned credits and a CGPA of %.2f.",
		verdict.TotalEarnedCredits, verdict.CGPA)
	if verdict.Status == types.StatusBlocked {
		b.WriteString(" Registration is blocked; meet your advisor about restoring your standing.")
	}
	if verdict.HasBacklogs {
		fmt.Fprintf(&b, " You have %d backlog course(s) to clear.", verdict.BacklogCount)
	}
	if verdict.CanAdvance {
		b.WriteString(" You are eligible to register for next-semester courses.")
	}
	return b.String()
}
