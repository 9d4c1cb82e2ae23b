package types

// Grade is a letter grade as recorded on a result sheet.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeE     Grade = "E"
	GradeF     Grade = "F"
	GradeI     Grade = "I"
	GradeZ     Grade = "Z"
)

var gradePoints = map[Grade]float64{
	GradeAPlus: 10,
	GradeA:     9,
	GradeBPlus: 8,
	GradeB:     7,
	GradeC:     6,
	GradeD:     5,
	GradeE:     0,
	GradeF:     0,
	GradeI:     0,
	GradeZ:     0,
}

func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

// Points returns the grade-point value on the 10-point scale. Unknown
// grades score zero.
func (g Grade) Points() float64 {
	return gradePoints[g]
}

// Passing reports whether the grade clears the pass bar: D or better for
// theory courses, C or better for lab courses.
func (g Grade) Passing(isLab bool) bool {
	switch g {
	case GradeAPlus, GradeA, GradeBPlus, GradeB, GradeC:
		return true
	case GradeD:
		return !isLab
	default:
		return false
	}
}

// CourseStatus is the registration outcome of one course attempt.
type CourseStatus string

const (
	StatusRegistered CourseStatus = "REGISTERED"
	StatusPassed     CourseStatus = "PASSED"
	StatusFailed     CourseStatus = "FAILED"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case StatusRegistered, StatusPassed, StatusFailed:
		return true
	}
	return false
}

// RiskLevel classifies name-removal exposure from repeated non-promotion.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Severity orders risk levels from 0 (LOW) to 3 (CRITICAL).
func (r RiskLevel) Severity() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// RiskAction is the administrative action tied to a risk level.
type RiskAction string

const (
	ActionSafe        RiskAction = "SAFE"
	ActionCaution     RiskAction = "CAUTION"
	ActionWarning     RiskAction = "WARNING"
	ActionNameRemoval RiskAction = "NAME_REMOVAL"
)

// EligibilityStatus is the overall registration verdict.
type EligibilityStatus string

const (
	StatusEligible EligibilityStatus = "ELIGIBLE"
	StatusBlocked  EligibilityStatus = "BLOCKED"
)

// RegistrationType is a bucket of courses a student may register for.
type RegistrationType string

const (
	RegistrationCurrent RegistrationType = "CURRENT"
	RegistrationBacklog RegistrationType = "BACKLOG"
	RegistrationAdvance RegistrationType = "ADVANCE"
)

func (t RegistrationType) Valid() bool {
	switch t {
	case RegistrationCurrent, RegistrationBacklog, RegistrationAdvance:
		return true
	}
	return false
}

// RegistrationMode is the attendance/evaluation policy for a backlog retake.
//
//	a: full attendance, sessional work and exam
//	b: exam only, sessional marks carried over (not available for labs)
//	c: repeat with attendance exemption when earlier attendance was fulfilled
type RegistrationMode string

const (
	ModeA RegistrationMode = "a"
	ModeB RegistrationMode = "b"
	ModeC RegistrationMode = "c"
)

func (m RegistrationMode) Valid() bool {
	switch m {
	case ModeA, ModeB, ModeC:
		return true
	}
	return false
}

// RegistrationStatus is the lifecycle state of a submitted registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

// CourseCategory tags a catalog entry with its curriculum bucket.
type CourseCategory string

const (
	CategoryPC  CourseCategory = "PC"
	CategoryPE  CourseCategory = "PE"
	CategoryDC  CourseCategory = "DC"
	CategoryDE  CourseCategory = "DE"
	CategoryBS  CourseCategory = "BS"
	CategoryESA CourseCategory = "ESA"
	CategoryHM  CourseCategory = "HM"
	CategoryOE  CourseCategory = "OE"
	CategoryPSI CourseCategory = "PSI"
	CategoryAU  CourseCategory = "AU"
)

// ChatIntent is the routed topic of a chat message.
type ChatIntent string

const (
	IntentEligibility ChatIntent = "eligibility"
	IntentCourses     ChatIntent = "courses"
	IntentOrdinance   ChatIntent = "ordinance"
	IntentGeneral     ChatIntent = "general"
)
