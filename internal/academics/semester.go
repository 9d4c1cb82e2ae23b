package academics

import (
	"strings"
	"time"
)

// branchCodes maps the two-letter department code embedded in a faculty
// number (positions 3-4, e.g. 21COB123) to the branch name.
var branchCodes = map[string]string{
	"CO": "Computer Engineering",
	"EE": "Electrical Engineering",
	"ME": "Mechanical Engineering",
	"CE": "Civil Engineering",
	"EL": "Electronics Engineering",
	"CH": "Chemical Engineering",
}

// BranchFromFacultyNumber decodes the branch from a faculty number.
// Unrecognized or short inputs map to "Unknown".
func BranchFromFacultyNumber(facultyNumber string) string {
	fn := strings.ToUpper(strings.TrimSpace(facultyNumber))
	if len(fn) < 4 {
		return "Unknown"
	}
	if branch, ok := branchCodes[fn[2:4]]; ok {
		return branch
	}
	return "Unknown"
}

// CurrentSemester derives the running semester from the admission year.
// Odd semesters run July-December, even ones January-June; the result is
// clamped to [1,8].
func CurrentSemester(admissionYear int, now time.Time) int {
	sem := (now.Year() - admissionYear) * 2
	if now.Month() >= time.July {
		sem++
	}
	if sem < 1 {
		return 1
	}
	if sem > 8 {
		return 8
	}
	return sem
}
