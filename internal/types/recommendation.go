package types

// RecommendationSummary is the one-line standing attached to a course
// recommendation.
type RecommendationSummary struct {
	RiskLevel  RiskLevel `json:"risk_level"`
	CanAdvance bool      `json:"can_advance"`
	Message    string    `json:"message"`
}

// CourseRecommendation partitions the catalog into registration buckets.
// CurrentSemesterCredits counts Current courses only; backlog and advance
// credits are deliberately excluded from it.
type CourseRecommendation struct {
	Current  []Course        `json:"current"`
	Backlogs []BacklogCourse `json:"backlogs"`
	Advance  []Course        `json:"advance"`

	CurrentSemesterCredits int                   `json:"current_semester_credits"`
	Summary                RecommendationSummary `json:"summary"`
}
