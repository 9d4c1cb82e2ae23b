package types

// AcademicRecord is one course attempt from the result ledger. A course
// retaken n times has n records sharing a CourseID; only the record with
// the highest AttemptNumber decides backlog status. Exactly one record may
// exist per (CourseID, AttemptNumber) pair.
type AcademicRecord struct {
	CourseID            string       `json:"course_id"`
	Semester            int          `json:"semester"`
	AttemptNumber       int          `json:"attempt_number"`
	Grade               Grade        `json:"grade"`
	Status              CourseStatus `json:"status"`
	AttendanceFulfilled bool         `json:"attendance_fulfilled"`
	Marks               float64      `json:"marks"`
}
