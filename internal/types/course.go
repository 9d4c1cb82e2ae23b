package types

// Course is a read-only catalog entry. The catalog handed to the engine is
// assumed pre-filtered by branch.
type Course struct {
	CourseID   string         `json:"course_id"`
	Code       string         `json:"code"`
	Name       string         `json:"name"`
	Credits    int            `json:"credits"`
	Semester   int            `json:"semester"`
	IsTheory   bool           `json:"is_theory"`
	IsLab      bool           `json:"is_lab"`
	IsElective bool           `json:"is_elective"`
	Category   CourseCategory `json:"category"`
}
