package services

import (
	"fmt"
	"strings"

	"github.com/zhcet-ai/advisor-engine/internal/academics"
	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/rules"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// RegistrationService vets a proposed course selection against the
// verdict, the catalog and the ordinance rules. Pure validation:
// persisting an accepted registration is the surrounding application's
// concern. A rejection is an ordinary result, never a Go error.
type RegistrationService interface {
	VetSelection(profile *types.StudentProfile, verdict *types.EligibilityVerdict, catalog []types.Course, req *types.RegistrationRequest) *types.RegistrationResult
}

type registrationService struct {
	log *logger.Logger
}

func NewRegistrationService(baseLog *logger.Logger) (RegistrationService, error) {
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &registrationService{log: baseLog.With("service", "RegistrationService")}, nil
}

// VetSelection checks every selection for catalog membership, an allowed
// registration type, a valid mode for the course kind, and mode-c prior
// attendance, then the 40-credit cap over the accepted selections.
// TotalCredits counts accepted selections only.
func (s *registrationService) VetSelection(profile *types.StudentProfile, verdict *types.EligibilityVerdict, catalog []types.Course, req *types.RegistrationRequest) *types.RegistrationResult {
	res := &types.RegistrationResult{Status: types.RegistrationPending}
	if req == nil || len(req.Selections) == 0 {
		res.Status = types.RegistrationCancelled
		res.Errors = append(res.Errors, "select at least one course")
		res.Message = res.Errors[0]
		return res
	}
	if req.StudentID != "" && req.StudentID != profile.StudentID {
		res.Status = types.RegistrationCancelled
		res.Errors = append(res.Errors, fmt.Sprintf("request student %s does not match the verified profile", req.StudentID))
		res.Message = res.Errors[0]
		return res
	}

	byID := academics.CourseIndex(catalog)
	backlogByID := make(map[string]types.BacklogCourse, len(verdict.BacklogCourses))
	for _, b := range verdict.BacklogCourses {
		backlogByID[b.CourseID] = b
	}

	seen := make(map[string]bool, len(req.Selections))
	credits := make([]int, 0, len(req.Selections))
	for _, sel := range req.Selections {
		if seen[sel.CourseID] {
			res.Errors = append(res.Errors, fmt.Sprintf("course %s selected more than once", sel.CourseID))
			continue
		}
		seen[sel.CourseID] = true

		course, ok := byID[sel.CourseID]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("course %s not found", sel.CourseID))
			continue
		}
		if !verdict.AllowsType(sel.Type) {
			res.Errors = append(res.Errors, fmt.Sprintf("course %s: registration type %s not allowed", sel.CourseID, sel.Type))
			continue
		}

		mode := sel.Mode
		if mode == "" {
			mode = types.ModeA
		}
		info, err := rules.ModeRules(mode, course.IsLab)
		if err != nil {
			res.Errors = append(res.Errors, selectionError(sel.CourseID, err))
			continue
		}
		if info.RequiresPriorAttendance {
			prior, isBacklog := backlogByID[sel.CourseID]
			if !isBacklog || !prior.AttendanceFulfilled {
				res.Errors = append(res.Errors, fmt.Sprintf("course %s: mode c requires fulfilled attendance on an earlier attempt", sel.CourseID))
				continue
			}
		}

		credits = append(credits, course.Credits)
		res.TotalCredits += course.Credits
	}

	if ok, msg := rules.ValidateCreditLoad(credits); !ok {
		res.Errors = append(res.Errors, msg)
	}

	if len(res.Errors) > 0 {
		res.Status = types.RegistrationCancelled
		res.Message = res.Errors[0]
		s.log.Info("Registration rejected",
			"student_id", req.StudentID,
			"selections", len(req.Selections),
			"errors", len(res.Errors),
		)
		return res
	}

	res.OK = true
	res.Status = types.RegistrationConfirmed
	res.Message = fmt.Sprintf("Successfully registered for %d courses", len(req.Selections))
	s.log.Info("Registration vetted",
		"student_id", req.StudentID,
		"courses", len(req.Selections),
		"total_credits", res.TotalCredits,
	)
	return res
}

// selectionError flattens a rules error into a user-facing line without
// the sentinel prefix used for errors.Is matching.
func selectionError(courseID string, err error) string {
	msg := strings.TrimPrefix(err.Error(), errs.ErrInvalidArgument.Error()+": ")
	return fmt.Sprintf("course %s: %s", courseID, msg)
}
