package rules

import "fmt"

// AdvancementMinCGPA is the CGPA floor for registering in next-semester
// courses ahead of schedule.
const AdvancementMinCGPA = 7.5

// CheckAdvancement decides early-registration eligibility. The three
// conditions are checked in order (class standing, CGPA, backlogs) and the
// first failure supplies the reason.
func CheckAdvancement(currentSemester int, cgpa float64, hasBacklogs bool) (bool, string) {
	if currentSemester != 5 && currentSemester != 6 {
		return false, "Advancement only for third-year students (semester 5/6)"
	}
	if cgpa < AdvancementMinCGPA {
		return false, fmt.Sprintf("CGPA must be at least %.1f. Current: %.2f", AdvancementMinCGPA, cgpa)
	}
	if hasBacklogs {
		return false, "Cannot advance with pending backlogs"
	}
	return true, fmt.Sprintf("Eligible for advancement (CGPA: %.2f, no backlogs)", cgpa)
}
