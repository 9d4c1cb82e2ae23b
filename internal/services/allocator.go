package services

import (
	"fmt"

	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// AllocatorService partitions the course catalog into registration buckets
// for one student. Pure computation over the verdict and catalog, no I/O.
type AllocatorService interface {
	Recommend(profile *types.StudentProfile, verdict *types.EligibilityVerdict, catalog []types.Course) *types.CourseRecommendation
}

type allocatorService struct {
	log *logger.Logger
}

func NewAllocatorService(baseLog *logger.Logger) (AllocatorService, error) {
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &allocatorService{log: baseLog.With("service", "AllocatorService")}, nil
}

// Recommend buckets the catalog by the verdict. Critical-risk students get
// an empty current bucket and are redirected to backlog clearing. Backlogs
// pass through from the verdict unchanged so the two surfaces cannot
// diverge. CurrentSemesterCredits counts the current bucket only; backlog
// and advance credits are excluded from it.
func (s *allocatorService) Recommend(profile *types.StudentProfile, verdict *types.EligibilityVerdict, catalog []types.Course) *types.CourseRecommendation {
	rec := &types.CourseRecommendation{
		Current:  []types.Course{},
		Backlogs: verdict.BacklogCourses,
		Advance:  []types.Course{},
	}

	if verdict.RiskLevel != types.RiskCritical {
		for _, c := range catalog {
			if c.Semester == profile.CurrentSemester {
				rec.Current = append(rec.Current, c)
				rec.CurrentSemesterCredits += c.Credits
			}
		}
	}

	if verdict.CanAdvance {
		for _, c := range catalog {
			if c.Semester == profile.CurrentSemester+1 {
				rec.Advance = append(rec.Advance, c)
			}
		}
	}

	rec.Summary = types.RecommendationSummary{
		RiskLevel:  verdict.RiskLevel,
		CanAdvance: verdict.CanAdvance,
		Message:    summaryMessage(verdict.RiskLevel, len(rec.Backlogs)),
	}
	return rec
}

func summaryMessage(risk types.RiskLevel, backlogCount int) string {
	switch {
	case risk == types.RiskCritical:
		return "Critical academic standing. Contact your advisor."
	case backlogCount > 0:
		return fmt.Sprintf("You have %d backlog courses to clear.", backlogCount)
	default:
		return "You are on track. Proceed with registration."
	}
}
