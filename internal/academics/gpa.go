package academics

import (
	"math"

	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// CGPA is the credit-weighted mean of grade points over the latest attempt
// of every graded course, rounded to two decimals. Zero graded credits
// yields 0.
func CGPA(records []types.AcademicRecord, catalog []types.Course) (float64, error) {
	latest, err := LatestAttempts(records)
	if err != nil {
		return 0, err
	}
	idx := CourseIndex(catalog)
	totalPoints := 0.0
	totalCredits := 0
	for courseID, rec := range latest {
		course, ok := idx[courseID]
		if !ok || !rec.Grade.Valid() {
			continue
		}
		totalPoints += rec.Grade.Points() * float64(course.Credits)
		totalCredits += course.Credits
	}
	if totalCredits == 0 {
		return 0, nil
	}
	return math.Round(totalPoints/float64(totalCredits)*100) / 100, nil
}

// EarnedCredits sums credits of courses whose latest attempt passed.
func EarnedCredits(records []types.AcademicRecord, catalog []types.Course) (int, error) {
	perSemester, err := SemesterCredits(records, catalog)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, credits := range perSemester {
		total += credits
	}
	return total, nil
}

// SemesterCredits buckets earned credits by the semester the passing
// attempt was recorded in.
func SemesterCredits(records []types.AcademicRecord, catalog []types.Course) (map[int]int, error) {
	latest, err := LatestAttempts(records)
	if err != nil {
		return nil, err
	}
	idx := CourseIndex(catalog)
	perSemester := make(map[int]int)
	for courseID, rec := range latest {
		course, ok := idx[courseID]
		if !ok {
			continue
		}
		if rec.Status == types.StatusPassed || rec.Grade.Passing(course.IsLab) {
			perSemester[rec.Semester] += course.Credits
		}
	}
	return perSemester, nil
}
