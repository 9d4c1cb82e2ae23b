package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/retrieval"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

type stubGenerator struct {
	text       string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubGenerator) EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error) {
	return nil, fmt.Errorf("unexpected EmbedTexts call")
}

func (s *stubGenerator) EmbedQuery(ctx context.Context, input string) ([]float32, error) {
	return nil, fmt.Errorf("unexpected EmbedQuery call")
}

func (s *stubGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubRetriever struct {
	result           *types.RetrievalResult
	err              error
	retrieveCalls    int
	promotionCalls   int
	advancementCalls int
}

func (s *stubRetriever) answer() (*types.RetrievalResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &types.RetrievalResult{Context: retrieval.NoInformationContext}, nil
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, topK int) (*types.RetrievalResult, error) {
	s.retrieveCalls++
	return s.answer()
}

func (s *stubRetriever) PromotionRules(ctx context.Context) (*types.RetrievalResult, error) {
	s.promotionCalls++
	return s.answer()
}

func (s *stubRetriever) AdvancementRules(ctx context.Context) (*types.RetrievalResult, error) {
	s.advancementCalls++
	return s.answer()
}

func (s *stubRetriever) RegistrationModes(ctx context.Context) (*types.RetrievalResult, error) {
	return s.answer()
}

func (s *stubRetriever) GradingRules(ctx context.Context) (*types.RetrievalResult, error) {
	return s.answer()
}

func testVerdict() *types.EligibilityVerdict {
	return &types.EligibilityVerdict{
		StudentID:                "S1",
		CurrentSemester:          3,
		CGPA:                     7.8,
		TotalEarnedCredits:       44,
		Status:                   types.StatusEligible,
		RiskLevel:                types.RiskLow,
		RiskAction:               types.ActionSafe,
		RiskMessage:              "Good standing",
		CanRegister:              true,
		AllowedRegistrationTypes: []types.RegistrationType{types.RegistrationCurrent},
	}
}

func newAdvisor(t *testing.T, llm *stubGenerator, ret *stubRetriever) AdvisorService {
	t.Helper()
	svc, err := NewAdvisorService(llm, ret, nil, newTestLogger(t))
	if err != nil {
		t.Fatalf("NewAdvisorService: %v", err)
	}
	return svc
}

func TestRecommendationsOnTrackSkipsRetrievalAndModel(t *testing.T) {
	llm := &stubGenerator{text: "should not be used"}
	ret := &stubRetriever{}
	svc := newAdvisor(t, llm, ret)

	recs := svc.Recommendations(context.Background(), testVerdict())
	if len(recs) != 1 || recs[0] != "You are on track. Register for current semester courses." {
		t.Fatalf("on-track fallback: %v", recs)
	}
	if llm.calls != 0 {
		t.Fatalf("model must not be called without ordinance context, calls=%d", llm.calls)
	}
	if ret.promotionCalls != 0 || ret.advancementCalls != 0 {
		t.Fatalf("no retrieval expected for an unremarkable verdict")
	}
}

func TestRecommendationsCriticalFallback(t *testing.T) {
	llm := &stubGenerator{}
	ret := &stubRetriever{}
	svc := newAdvisor(t, llm, ret)

	v := testVerdict()
	v.RiskLevel = types.RiskCritical
	v.Status = types.StatusBlocked

	recs := svc.Recommendations(context.Background(), v)
	if len(recs) != 1 || recs[0] != "URGENT: meet with your advisor immediately." {
		t.Fatalf("critical fallback: %v", recs)
	}
	if ret.promotionCalls != 1 {
		t.Fatalf("critical verdicts retrieve promotion rules, calls=%d", ret.promotionCalls)
	}
	if llm.calls != 0 {
		t.Fatalf("sentinel context must not reach the model")
	}
}

func TestRecommendationsBacklogAndAdvanceFallback(t *testing.T) {
	svc := newAdvisor(t, &stubGenerator{}, &stubRetriever{})

	v := testVerdict()
	v.HasBacklogs = true
	v.BacklogCount = 1
	v.CanAdvance = true

	recs := svc.Recommendations(context.Background(), v)
	if len(recs) != 2 {
		t.Fatalf("fallback lines: %v", recs)
	}
	if recs[0] != "Clear backlog courses this semester." {
		t.Fatalf("backlog line: %q", recs[0])
	}
	if recs[1] != "You can register for advanced courses." {
		t.Fatalf("advance line: %q", recs[1])
	}
}

func TestRecommendationsParsesModelOutput(t *testing.T) {
	llm := &stubGenerator{text: "# Recommendations\n- Meet your advisor this week\n\n- Retake CO201 under mode a\n- Keep attendance above the bar\n- A fourth line that should be dropped"}
	ret := &stubRetriever{result: &types.RetrievalResult{
		Context: strings.Repeat("Ordinance 7.2: promotion needs credit thresholds. ", 3),
		Sources: []string{"AMU Ordinances"},
	}}
	svc := newAdvisor(t, llm, ret)

	v := testVerdict()
	v.RiskLevel = types.RiskCritical
	v.Status = types.StatusBlocked

	recs := svc.Recommendations(context.Background(), v)
	want := []string{
		"Meet your advisor this week",
		"Retake CO201 under mode a",
		"Keep attendance above the bar",
	}
	if len(recs) != len(want) {
		t.Fatalf("parsed lines: want=%v got=%v", want, recs)
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Fatalf("line %d: want=%q got=%q", i, want[i], recs[i])
		}
	}
	if !strings.Contains(llm.lastUser, "Risk Level: CRITICAL") {
		t.Fatalf("prompt missing risk level: %q", llm.lastUser)
	}
	if !strings.Contains(llm.lastUser, "Ordinance 7.2") {
		t.Fatalf("prompt missing retrieved context: %q", llm.lastUser)
	}
}

func TestRecommendationsGenerationFailure(t *testing.T) {
	llm := &stubGenerator{err: fmt.Errorf("%w: generate text: boom", errs.ErrExternalService)}
	ret := &stubRetriever{result: &types.RetrievalResult{
		Context: strings.Repeat("Ordinance 9.1: advancement requires CGPA 7.5. ", 3),
	}}
	svc := newAdvisor(t, llm, ret)

	v := testVerdict()
	v.CurrentSemester = 5
	v.CanAdvance = true

	recs := svc.Recommendations(context.Background(), v)
	if len(recs) != 2 || recs[0] != "Register for current semester courses" || recs[1] != "Maintain CGPA above 7.5" {
		t.Fatalf("generation-failure fallback: %v", recs)
	}
	if ret.advancementCalls != 1 {
		t.Fatalf("advance-eligible verdicts retrieve advancement rules")
	}
}

func TestRecommendationsNeverEmpty(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *types.EligibilityVerdict)
	}{
		{"plain", func(v *types.EligibilityVerdict) {}},
		{"critical", func(v *types.EligibilityVerdict) { v.RiskLevel = types.RiskCritical }},
		{"backlogs", func(v *types.EligibilityVerdict) { v.HasBacklogs = true; v.BacklogCount = 2 }},
		{"advance", func(v *types.EligibilityVerdict) { v.CanAdvance = true }},
		{"critical with backlogs", func(v *types.EligibilityVerdict) {
			v.RiskLevel = types.RiskCritical
			v.HasBacklogs = true
		}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			llm := &stubGenerator{err: fmt.Errorf("%w: provider down", errs.ErrExternalService)}
			ret := &stubRetriever{err: fmt.Errorf("%w: embeddings down", errs.ErrExternalService)}
			svc := newAdvisor(t, llm, ret)

			v := testVerdict()
			tc.mutate(v)
			if recs := svc.Recommendations(context.Background(), v); len(recs) == 0 {
				t.Fatalf("recommendations must never be empty")
			}
		})
	}
}

func TestExplainUsesModel(t *testing.T) {
	llm := &stubGenerator{text: "  You are in good standing and can register normally.  "}
	svc := newAdvisor(t, llm, &stubRetriever{})

	got := svc.Explain(context.Background(), testProfile(), testVerdict(), "Am I eligible?", "Ordinance 7.2: thresholds apply.")
	if got != "You are in good standing and can register normally." {
		t.Fatalf("explanation: %q", got)
	}
	if !strings.Contains(llm.lastUser, "Student Question: Am I eligible?") {
		t.Fatalf("prompt missing question: %q", llm.lastUser)
	}
	if !strings.Contains(llm.lastUser, "CGPA: 7.80") {
		t.Fatalf("prompt missing cgpa: %q", llm.lastUser)
	}
	if !strings.Contains(llm.lastUser, "Ordinance 7.2") {
		t.Fatalf("prompt missing policy context: %q", llm.lastUser)
	}
}

func TestExplainFallback(t *testing.T) {
	llm := &stubGenerator{err: fmt.Errorf("%w: generate text: 503", errs.ErrExternalService)}
	svc := newAdvisor(t, llm, &stubRetriever{})

	v := testVerdict()
	v.Status = types.StatusBlocked
	v.HasBacklogs = true
	v.BacklogCount = 2

	got := svc.Explain(context.Background(), testProfile(), v, "Am I eligible?", "")
	if !strings.HasPrefix(got, "Based on your current status, you have 44 earned credits and a CGPA of 7.80.") {
		t.Fatalf("fallback opening: %q", got)
	}
	if !strings.Contains(got, "Registration is blocked") {
		t.Fatalf("fallback must mention the block: %q", got)
	}
	if !strings.Contains(got, "2 backlog course(s)") {
		t.Fatalf("fallback must mention backlogs: %q", got)
	}
}

func TestExplainEmptyModelOutputFallsBack(t *testing.T) {
	llm := &stubGenerator{text: "   \n  "}
	svc := newAdvisor(t, llm, &stubRetriever{})

	got := svc.Explain(context.Background(), testProfile(), testVerdict(), "", "")
	if got == "" {
		t.Fatalf("explanation must never be empty")
	}
	if !strings.HasPrefix(got, "Based on your current status") {
		t.Fatalf("blank model output must fall back: %q", got)
	}
}
