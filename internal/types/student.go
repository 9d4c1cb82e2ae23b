package types

// StudentProfile is an immutable academic snapshot supplied by the caller.
// The engine never mutates it; a fresh snapshot is expected per evaluation
// because grades and credits may have changed between calls.
type StudentProfile struct {
	StudentID          string      `json:"student_id"`
	EnrollmentNumber   string      `json:"enrollment_number"`
	FacultyNumber      string      `json:"faculty_number"`
	Name               string      `json:"name"`
	Branch             string      `json:"branch"`
	AdmissionYear      int         `json:"admission_year"`
	CurrentSemester    int         `json:"current_semester"`
	TotalEarnedCredits int         `json:"total_earned_credits"`
	NotPromotedCount   int         `json:"not_promoted_count"`
	CGPA               float64     `json:"cgpa"`
	SemesterCredits    map[int]int `json:"semester_credits"`
}

// CreditsThrough sums earned credits for semesters 1..n.
func (p StudentProfile) CreditsThrough(n int) int {
	total := 0
	for sem, credits := range p.SemesterCredits {
		if sem >= 1 && sem <= n {
			total += credits
		}
	}
	return total
}
