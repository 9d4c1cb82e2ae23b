package services

import (
	"fmt"
	"strings"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// VerificationService resolves a student snapshot from enrollment and
// faculty numbers. Lookup only: credential management belongs to the
// surrounding application.
type VerificationService interface {
	Verify(profiles []types.StudentProfile, enrollmentNumber, facultyNumber string) (*types.StudentProfile, string, error)
}

type verificationService struct {
	log *logger.Logger
}

func NewVerificationService(baseLog *logger.Logger) (VerificationService, error) {
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &verificationService{log: baseLog.With("service", "VerificationService")}, nil
}

// Verify matches case-insensitively on both numbers. A miss is the
// caller's ErrNotFound, surfaced unchanged and never retried.
func (s *verificationService) Verify(profiles []types.StudentProfile, enrollmentNumber, facultyNumber string) (*types.StudentProfile, string, error) {
	enrollment := strings.ToLower(strings.TrimSpace(enrollmentNumber))
	faculty := strings.ToLower(strings.TrimSpace(facultyNumber))
	if enrollment == "" || faculty == "" {
		return nil, "", fmt.Errorf("%w: enrollment and faculty numbers are required", errs.ErrInvalidArgument)
	}

	for i := range profiles {
		p := profiles[i]
		if strings.ToLower(strings.TrimSpace(p.EnrollmentNumber)) != enrollment {
			continue
		}
		if strings.ToLower(strings.TrimSpace(p.FacultyNumber)) != faculty {
			continue
		}
		s.log.Info("Student verified", "student_id", p.StudentID, "enrollment_number", p.EnrollmentNumber)
		return &p, fmt.Sprintf("Welcome, %s!", p.Name), nil
	}
	return nil, "", fmt.Errorf("%w: no student matches the given enrollment and faculty numbers", errs.ErrNotFound)
}
