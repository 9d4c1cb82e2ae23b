// Package services combines the pure ordinance rules, the retriever and
// the narrative composer into the advising surfaces: eligibility verdicts,
// course recommendations, registration vetting, verification and chat.
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/zhcet-ai/advisor-engine/internal/academics"
	"github.com/zhcet-ai/advisor-engine/internal/observability"
	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/rules"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// EligibilityService evaluates one student's standing against the
// promotion, name-removal and advancement ordinances.
type EligibilityService interface {
	AnalyzeEligibility(ctx context.Context, profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course) (*types.EligibilityVerdict, error)
}

type eligibilityService struct {
	log     *logger.Logger
	advisor AdvisorService
	metrics *observability.Metrics
}

func NewEligibilityService(advisor AdvisorService, metrics *observability.Metrics, baseLog *logger.Logger) (EligibilityService, error) {
	if advisor == nil {
		return nil, fmt.Errorf("advisor service required")
	}
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &eligibilityService{
		log:     baseLog.With("service", "EligibilityService"),
		advisor: advisor,
		metrics: metrics,
	}, nil
}

// AnalyzeEligibility computes a complete verdict for the supplied
// snapshot. Blocked students still receive a full payload: a negative
// outcome is data, not an error. Errors are reserved for broken input
// (ErrInvalidArgument, ErrDataIntegrity) and catalog gaps (ErrNotFound).
func (s *eligibilityService) AnalyzeEligibility(ctx context.Context, profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course) (*types.EligibilityVerdict, error) {
	if err := validateSnapshot(profile, records, catalog); err != nil {
		return nil, err
	}

	backlogs, err := backlogCourses(records, catalog)
	if err != nil {
		return nil, err
	}
	hasBacklogs := len(backlogs) > 0

	riskLevel, riskAction, riskMsg := rules.CheckNameRemovalRisk(profile.NotPromotedCount)
	canAdvance, advanceReason := rules.CheckAdvancement(profile.CurrentSemester, profile.CGPA, hasBacklogs)

	verdict := &types.EligibilityVerdict{
		StudentID:          profile.StudentID,
		CurrentSemester:    profile.CurrentSemester,
		CGPA:               profile.CGPA,
		TotalEarnedCredits: profile.TotalEarnedCredits,
		NotPromotedCount:   profile.NotPromotedCount,
		Status:             types.StatusEligible,
		RiskLevel:          riskLevel,
		RiskAction:         riskAction,
		RiskMessage:        riskMsg,
		CanAdvance:         canAdvance,
		AdvanceReason:      advanceReason,
		HasBacklogs:        hasBacklogs,
		BacklogCount:       len(backlogs),
		BacklogCourses:     backlogs,
	}
	if riskLevel == types.RiskCritical {
		verdict.Status = types.StatusBlocked
	}
	verdict.CanRegister = verdict.Status == types.StatusEligible

	allowed := make([]types.RegistrationType, 0, 3)
	if riskLevel != types.RiskCritical {
		allowed = append(allowed, types.RegistrationCurrent)
	}
	if hasBacklogs {
		allowed = append(allowed, types.RegistrationBacklog)
	}
	if canAdvance {
		allowed = append(allowed, types.RegistrationAdvance)
	}
	verdict.AllowedRegistrationTypes = allowed

	if riskLevel != types.RiskLow {
		verdict.Warnings = append(verdict.Warnings, riskMsg)
	}
	if hasBacklogs {
		verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("You have %d backlog course(s)", len(backlogs)))
	}

	// Promotion checkpoints exist only at even semesters; odd semesters
	// carry no block at all rather than a vacuous pass.
	if profile.CurrentSemester%2 == 0 {
		eligible, reason := rules.CheckPromotion(profile.CurrentSemester, profile.TotalEarnedCredits, profile.SemesterCredits)
		verdict.Promotion = &types.PromotionStatus{Eligible: eligible, Reason: reason}
	}

	verdict.Recommendations = s.advisor.Recommendations(ctx, verdict)

	s.metrics.IncEvaluation(string(verdict.Status))
	s.log.Info("Eligibility evaluated",
		"student_id", verdict.StudentID,
		"status", verdict.Status,
		"risk_level", verdict.RiskLevel,
		"backlog_count", verdict.BacklogCount,
		"can_advance", verdict.CanAdvance,
	)
	return verdict, nil
}

// validateSnapshot applies the fail-fast input policy: a structurally
// broken snapshot is rejected before any rule runs, so a data problem
// upstream cannot masquerade as a legitimate verdict.
func validateSnapshot(profile *types.StudentProfile, records []types.AcademicRecord, catalog []types.Course) error {
	if profile == nil {
		return fmt.Errorf("%w: student profile required", errs.ErrInvalidArgument)
	}
	if profile.CurrentSemester < 1 || profile.CurrentSemester > 8 {
		return fmt.Errorf("%w: current semester %d outside [1,8]", errs.ErrInvalidArgument, profile.CurrentSemester)
	}
	if profile.CGPA < 0 || profile.CGPA > 10 {
		return fmt.Errorf("%w: cgpa %.2f outside [0,10]", errs.ErrInvalidArgument, profile.CGPA)
	}
	if profile.TotalEarnedCredits < 0 {
		return fmt.Errorf("%w: negative total earned credits %d", errs.ErrInvalidArgument, profile.TotalEarnedCredits)
	}
	if profile.NotPromotedCount < 0 {
		return fmt.Errorf("%w: negative not-promoted count %d", errs.ErrInvalidArgument, profile.NotPromotedCount)
	}
	for sem, credits := range profile.SemesterCredits {
		if credits < 0 {
			return fmt.Errorf("%w: negative credits %d for semester %d", errs.ErrInvalidArgument, credits, sem)
		}
	}
	for _, r := range records {
		if r.AttemptNumber < 1 {
			return fmt.Errorf("%w: attempt number %d for course %s", errs.ErrInvalidArgument, r.AttemptNumber, r.CourseID)
		}
		if !r.Grade.Valid() {
			return fmt.Errorf("%w: unknown grade %q for course %s", errs.ErrInvalidArgument, string(r.Grade), r.CourseID)
		}
		if !r.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q for course %s", errs.ErrInvalidArgument, string(r.Status), r.CourseID)
		}
	}
	for _, c := range catalog {
		if c.Credits < 0 {
			return fmt.Errorf("%w: negative credits %d for catalog course %s", errs.ErrInvalidArgument, c.Credits, c.CourseID)
		}
	}
	return nil
}

// backlogCourses extracts outstanding courses and enriches them with
// catalog metadata, sorted by course id for stable output. A backlog
// referencing an unknown course is the caller's data gap: ErrNotFound,
// surfaced unchanged.
func backlogCourses(records []types.AcademicRecord, catalog []types.Course) ([]types.BacklogCourse, error) {
	outstanding, err := academics.ExtractBacklogs(records)
	if err != nil {
		return nil, err
	}
	byID := academics.CourseIndex(catalog)

	backlogs := make([]types.BacklogCourse, 0, len(outstanding))
	for _, rec := range outstanding {
		course, ok := byID[rec.CourseID]
		if !ok {
			return nil, fmt.Errorf("%w: course %s from the academic record is not in the catalog", errs.ErrNotFound, rec.CourseID)
		}
		backlogs = append(backlogs, types.BacklogCourse{
			CourseID:            course.CourseID,
			Code:                course.Code,
			Name:                course.Name,
			Credits:             course.Credits,
			Semester:            course.Semester,
			Grade:               rec.Grade,
			AttemptNumber:       rec.AttemptNumber,
			AttendanceFulfilled: rec.AttendanceFulfilled,
		})
	}
	sort.Slice(backlogs, func(i, j int) bool { return backlogs[i].CourseID < backlogs[j].CourseID })
	return backlogs, nil
}
