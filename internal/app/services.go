package app

import (
	"fmt"

	"github.com/zhcet-ai/advisor-engine/internal/clients/gemini"
	"github.com/zhcet-ai/advisor-engine/internal/observability"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/retrieval"
	"github.com/zhcet-ai/advisor-engine/internal/services"
)

type Services struct {
	Verification services.VerificationService
	Eligibility  services.EligibilityService
	Allocator    services.AllocatorService
	Advisor      services.AdvisorService
	Registration services.RegistrationService
	Chat         services.ChatService
}

func wireServices(llm gemini.Client, ret retrieval.Retriever, metrics *observability.Metrics, log *logger.Logger) (Services, error) {
	verification, err := services.NewVerificationService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init verification service: %w", err)
	}
	advisor, err := services.NewAdvisorService(llm, ret, metrics, log)
	if err != nil {
		return Services{}, fmt.Errorf("init advisor service: %w", err)
	}
	eligibility, err := services.NewEligibilityService(advisor, metrics, log)
	if err != nil {
		return Services{}, fmt.Errorf("init eligibility service: %w", err)
	}
	allocator, err := services.NewAllocatorService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init allocator service: %w", err)
	}
	registration, err := services.NewRegistrationService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init registration service: %w", err)
	}
	chat, err := services.NewChatService(eligibility, allocator, advisor, ret, llm, log)
	if err != nil {
		return Services{}, fmt.Errorf("init chat service: %w", err)
	}
	return Services{
		Verification: verification,
		Eligibility:  eligibility,
		Allocator:    allocator,
		Advisor:      advisor,
		Registration: registration,
		Chat:         chat,
	}, nil
}
