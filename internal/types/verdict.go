package types

// BacklogCourse is a latest failing attempt enriched with catalog metadata.
type BacklogCourse struct {
	CourseID            string `json:"course_id"`
	Code                string `json:"code"`
	Name                string `json:"name"`
	Credits             int    `json:"credits"`
	Semester            int    `json:"semester"`
	Grade               Grade  `json:"grade"`
	AttemptNumber       int    `json:"attempt_number"`
	AttendanceFulfilled bool   `json:"attendance_fulfilled"`
}

// PromotionStatus is the even-semester checkpoint outcome.
type PromotionStatus struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

// EligibilityVerdict is the full decision payload for one student. Computed
// fresh on every request and never cached: the inputs may have changed.
// Blocked students still receive a complete verdict; a negative outcome is
// data, not an error.
type EligibilityVerdict struct {
	StudentID          string `json:"student_id"`
	CurrentSemester    int    `json:"current_semester"`
	CGPA               float64 `json:"cgpa"`
	TotalEarnedCredits int    `json:"total_earned_credits"`
	NotPromotedCount   int    `json:"not_promoted_count"`

	Status      EligibilityStatus `json:"status"`
	RiskLevel   RiskLevel         `json:"risk_level"`
	RiskAction  RiskAction        `json:"risk_action"`
	RiskMessage string            `json:"risk_message"`

	CanRegister   bool   `json:"can_register"`
	CanAdvance    bool   `json:"can_advance"`
	AdvanceReason string `json:"advance_reason"`

	HasBacklogs    bool            `json:"has_backlogs"`
	BacklogCount   int             `json:"backlog_count"`
	BacklogCourses []BacklogCourse `json:"backlog_courses"`

	AllowedRegistrationTypes []RegistrationType `json:"allowed_registration_types"`
	Warnings                 []string           `json:"warnings"`
	Recommendations          []string           `json:"recommendations"`

	// Promotion is nil for odd semesters; checks run only at even ones.
	Promotion *PromotionStatus `json:"promotion_status,omitempty"`
}

// AllowsType reports whether the verdict permits registering in the given
// bucket.
func (v *EligibilityVerdict) AllowsType(t RegistrationType) bool {
	for _, allowed := range v.AllowedRegistrationTypes {
		if allowed == t {
			return true
		}
	}
	return false
}
