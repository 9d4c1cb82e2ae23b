package academics

import (
	"fmt"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// LatestAttempts reduces a multi-attempt history to the most recent record
// per course. A duplicate (course, attempt) pair means the ledger upstream
// is corrupt; that is reported, never resolved silently.
func LatestAttempts(records []types.AcademicRecord) (map[string]types.AcademicRecord, error) {
	type attemptKey struct {
		courseID string
		attempt  int
	}
	seen := make(map[attemptKey]bool, len(records))
	latest := make(map[string]types.AcademicRecord)
	for _, rec := range records {
		key := attemptKey{rec.CourseID, rec.AttemptNumber}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate attempt %d for course %s", errs.ErrDataIntegrity, rec.AttemptNumber, rec.CourseID)
		}
		seen[key] = true
		if cur, ok := latest[rec.CourseID]; !ok || rec.AttemptNumber > cur.AttemptNumber {
			latest[rec.CourseID] = rec
		}
	}
	return latest, nil
}

// ExtractBacklogs returns the latest attempt of every course still
// outstanding: grade E or F and status not PASSED. Output order is
// unspecified; callers sort when they need determinism. Pure and
// idempotent over its input.
func ExtractBacklogs(records []types.AcademicRecord) ([]types.AcademicRecord, error) {
	latest, err := LatestAttempts(records)
	if err != nil {
		return nil, err
	}
	var backlogs []types.AcademicRecord
	for _, rec := range latest {
		if rec.Status == types.StatusPassed {
			continue
		}
		if rec.Grade == types.GradeE || rec.Grade == types.GradeF {
			backlogs = append(backlogs, rec)
		}
	}
	return backlogs, nil
}

// CourseIndex maps catalog entries by course id.
func CourseIndex(catalog []types.Course) map[string]types.Course {
	idx := make(map[string]types.Course, len(catalog))
	for _, c := range catalog {
		idx[c.CourseID] = c
	}
	return idx
}
