package rules

import (
	"fmt"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// MaxSemesterCredits caps a single semester's registration load.
const MaxSemesterCredits = 40

// ValidateCreditLoad checks a proposed credit load against the semester
// cap. Exceeding the cap is a business negative, not an error.
func ValidateCreditLoad(credits []int) (bool, string) {
	total := 0
	for _, c := range credits {
		total += c
	}
	if total > MaxSemesterCredits {
		return false, fmt.Sprintf("Total credits (%d) exceed maximum limit of %d", total, MaxSemesterCredits)
	}
	return true, fmt.Sprintf("Valid: %d/%d credits", total, MaxSemesterCredits)
}

// ModeInfo describes what one registration mode demands of the student.
type ModeInfo struct {
	Mode                    types.RegistrationMode `json:"mode"`
	Description             string                 `json:"description"`
	AttendanceRequired      bool                   `json:"attendance_required"`
	SessionalRepeated       bool                   `json:"sessional_repeated"`
	ExamRequired            bool                   `json:"exam_required"`
	RequiresPriorAttendance bool                   `json:"requires_prior_attendance"`
}

// ModeRules resolves the evaluation policy for a retake mode. Mode b
// carries earlier sessional marks and is unavailable for lab courses,
// where sessional work is the course.
func ModeRules(mode types.RegistrationMode, isLab bool) (ModeInfo, error) {
	switch mode {
	case types.ModeA:
		return ModeInfo{
			Mode:               types.ModeA,
			Description:        "Full attendance, sessional work and examination",
			AttendanceRequired: true,
			SessionalRepeated:  true,
			ExamRequired:       true,
		}, nil
	case types.ModeB:
		if isLab {
			return ModeInfo{}, fmt.Errorf("%w: mode b is not available for lab courses", errs.ErrInvalidArgument)
		}
		return ModeInfo{
			Mode:         types.ModeB,
			Description:  "Examination only, sessional marks carried over",
			ExamRequired: true,
		}, nil
	case types.ModeC:
		return ModeInfo{
			Mode:                    types.ModeC,
			Description:             "Repeat with attendance exemption",
			SessionalRepeated:       true,
			ExamRequired:            true,
			RequiresPriorAttendance: true,
		}, nil
	default:
		return ModeInfo{}, fmt.Errorf("%w: unknown registration mode %q", errs.ErrInvalidArgument, string(mode))
	}
}
