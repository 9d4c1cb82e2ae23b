package types

// CourseSelection pairs a catalog course with the mode it is taken under.
type CourseSelection struct {
	CourseID string           `json:"course_id"`
	Type     RegistrationType `json:"type"`
	Mode     RegistrationMode `json:"mode"`
}

// RegistrationRequest is a proposed set of course selections for vetting.
type RegistrationRequest struct {
	StudentID  string            `json:"student_id"`
	Selections []CourseSelection `json:"selections"`
}

// RegistrationResult is the vetting outcome. A rejected selection is an
// ordinary negative result carried in Errors, not a Go error.
type RegistrationResult struct {
	OK           bool               `json:"ok"`
	Status       RegistrationStatus `json:"status"`
	TotalCredits int                `json:"total_credits"`
	Errors       []string           `json:"errors,omitempty"`
	Message      string             `json:"message"`
}
