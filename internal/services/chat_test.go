package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

func newChat(t *testing.T, llm *stubGenerator, ret *stubRetriever, advisor AdvisorService) ChatService {
	t.Helper()
	log := newTestLogger(t)
	eligibility, err := NewEligibilityService(advisor, nil, log)
	if err != nil {
		t.Fatalf("NewEligibilityService: %v", err)
	}
	allocator, err := NewAllocatorService(log)
	if err != nil {
		t.Fatalf("NewAllocatorService: %v", err)
	}
	chat, err := NewChatService(eligibility, allocator, advisor, ret, llm, log)
	if err != nil {
		t.Fatalf("NewChatService: %v", err)
	}
	return chat
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		message string
		want    types.ChatIntent
	}{
		{"Am I eligible for promotion?", types.IntentEligibility},
		{"Do I have any backlog left?", types.IntentEligibility},
		{"Can I advance to next year?", types.IntentEligibility},
		{"Which courses should I take?", types.IntentCourses},
		{"Recommend something for this semester", types.IntentCourses},
		{"What does the ordinance say about attendance?", types.IntentOrdinance},
		{"Explain the grading policy", types.IntentOrdinance},
		{"hello there", types.IntentGeneral},
		{"", types.IntentGeneral},
		// "can i" outranks "register": the eligibility group matches first.
		{"Can I register for courses?", types.IntentEligibility},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.message, func(t *testing.T) {
			if got := ClassifyIntent(tc.message); got != tc.want {
				t.Fatalf("intent for %q: want=%v got=%v", tc.message, tc.want, got)
			}
		})
	}
}

func TestChatCoursesDeterministic(t *testing.T) {
	llm := &stubGenerator{}
	svc := newChat(t, llm, &stubRetriever{}, &stubAdvisor{recs: []string{"Clear backlog courses this semester."}})

	records := []types.AcademicRecord{
		{CourseID: "C201", Semester: 2, AttemptNumber: 1, Grade: types.GradeE, Status: types.StatusFailed},
	}
	reply, err := svc.Chat(context.Background(), testProfile(), records, testCatalog(), "Which courses should I take?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Intent != types.IntentCourses {
		t.Fatalf("intent: %v", reply.Intent)
	}
	want := strings.Join([]string{
		"Current semester courses: 2 available",
		"Backlog courses: 1 to clear",
		"Current semester credits: 6/40",
		"You have 1 backlog courses to clear.",
	}, "\n")
	if reply.Response != want {
		t.Fatalf("response:\nwant=%q\ngot=%q", want, reply.Response)
	}
	if llm.calls != 0 {
		t.Fatalf("course answers are deterministic, model calls=%d", llm.calls)
	}
	if reply.Context["recommendation"] == nil {
		t.Fatalf("reply must carry the recommendation payload")
	}
}

func TestChatEligibilityAnswer(t *testing.T) {
	llm := &stubGenerator{}
	ret := &stubRetriever{result: &types.RetrievalResult{
		Context: "[Source 1]\nOrdinance 7.2: promotion thresholds.",
		Sources: []string{"AMU Ordinances"},
	}}
	advisor := &stubAdvisor{explanation: "You are on track for promotion."}
	svc := newChat(t, llm, ret, advisor)

	reply, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "Am I eligible for promotion?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Intent != types.IntentEligibility {
		t.Fatalf("intent: %v", reply.Intent)
	}
	if reply.Response != "You are on track for promotion." {
		t.Fatalf("response: %q", reply.Response)
	}
	if len(reply.Sources) != 1 || reply.Sources[0] != "AMU Ordinances" {
		t.Fatalf("sources: %v", reply.Sources)
	}
	if reply.Context["verdict"] == nil {
		t.Fatalf("reply must carry the verdict payload")
	}
	if ret.retrieveCalls != 1 {
		t.Fatalf("retrieval calls: %d", ret.retrieveCalls)
	}
}

func TestChatEligibilityToleratesRetrievalFailure(t *testing.T) {
	ret := &stubRetriever{err: fmt.Errorf("%w: embeddings down", errs.ErrExternalService)}
	advisor := &stubAdvisor{explanation: "Standing summary."}
	svc := newChat(t, &stubGenerator{}, ret, advisor)

	reply, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "Am I eligible?")
	if err != nil {
		t.Fatalf("retrieval failure must not fail chat: %v", err)
	}
	if reply.Response != "Standing summary." {
		t.Fatalf("response: %q", reply.Response)
	}
	if len(reply.Sources) != 0 {
		t.Fatalf("sources must be empty when retrieval fails: %v", reply.Sources)
	}
}

func TestChatEligibilityPropagatesHardErrors(t *testing.T) {
	svc := newChat(t, &stubGenerator{}, &stubRetriever{}, &stubAdvisor{})

	records := []types.AcademicRecord{
		{CourseID: "C201", Semester: 2, AttemptNumber: 1, Grade: types.GradeE, Status: types.StatusFailed},
		{CourseID: "C201", Semester: 2, AttemptNumber: 1, Grade: types.GradeF, Status: types.StatusFailed},
	}
	_, err := svc.Chat(context.Background(), testProfile(), records, testCatalog(), "Do I have a backlog?")
	if !errors.Is(err, errs.ErrDataIntegrity) {
		t.Fatalf("want ErrDataIntegrity, got %v", err)
	}
}

func TestChatOrdinanceUsesModel(t *testing.T) {
	llm := &stubGenerator{text: "Clause 7.2 requires sixteen credits by the second semester."}
	ret := &stubRetriever{result: &types.RetrievalResult{
		Context: "[Source 1]\nOrdinance 7.2: sixteen credits by semester two.",
		Sources: []string{"AMU Ordinances"},
	}}
	svc := newChat(t, llm, ret, &stubAdvisor{})

	reply, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "What is the attendance rule?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Intent != types.IntentOrdinance {
		t.Fatalf("intent: %v", reply.Intent)
	}
	if reply.Response != "Clause 7.2 requires sixteen credits by the second semester." {
		t.Fatalf("response: %q", reply.Response)
	}
	if !strings.Contains(llm.lastUser, "Student Question: What is the attendance rule?") {
		t.Fatalf("prompt missing question: %q", llm.lastUser)
	}
	if !strings.Contains(llm.lastUser, "Ordinance 7.2") {
		t.Fatalf("prompt missing context: %q", llm.lastUser)
	}
	if len(reply.Sources) != 1 {
		t.Fatalf("sources: %v", reply.Sources)
	}
}

func TestChatOrdinanceFallbackExcerpt(t *testing.T) {
	long := strings.Repeat("Ordinance text. ", 40)
	llm := &stubGenerator{err: fmt.Errorf("%w: generate text: 503", errs.ErrExternalService)}
	ret := &stubRetriever{result: &types.RetrievalResult{Context: long, Sources: []string{"AMU Ordinances"}}}
	svc := newChat(t, llm, ret, &stubAdvisor{})

	reply, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "Explain the attendance rule")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	want := string([]rune(long)[:500]) + "..."
	if reply.Response != want {
		t.Fatalf("excerpt: want %d chars got %d", len(want), len(reply.Response))
	}
	if len(reply.Sources) != 1 {
		t.Fatalf("sources must survive the fallback: %v", reply.Sources)
	}
}

func TestChatGeneralFallback(t *testing.T) {
	llm := &stubGenerator{err: fmt.Errorf("%w: generate text: timeout", errs.ErrExternalService)}
	svc := newChat(t, llm, &stubRetriever{}, &stubAdvisor{})

	reply, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "hello there")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Intent != types.IntentGeneral {
		t.Fatalf("intent: %v", reply.Intent)
	}
	if reply.Response != generalFallback {
		t.Fatalf("response: %q", reply.Response)
	}
}

func TestChatGeneralUsesModel(t *testing.T) {
	llm := &stubGenerator{text: "Hello! How can I help with your registration?"}
	svc := newChat(t, llm, &stubRetriever{}, &stubAdvisor{})

	reply, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "hey, good morning")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Response != "Hello! How can I help with your registration?" {
		t.Fatalf("response: %q", reply.Response)
	}
	if !strings.Contains(llm.lastUser, "Question: hey, good morning") {
		t.Fatalf("prompt missing question: %q", llm.lastUser)
	}
}

func TestChatRejectsEmptyInput(t *testing.T) {
	svc := newChat(t, &stubGenerator{}, &stubRetriever{}, &stubAdvisor{})

	if _, err := svc.Chat(context.Background(), testProfile(), nil, testCatalog(), "   "); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("empty message: want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Chat(context.Background(), nil, nil, testCatalog(), "hello"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("nil profile: want ErrInvalidArgument, got %v", err)
	}
}
