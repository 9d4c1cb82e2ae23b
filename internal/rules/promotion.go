// Package rules holds the pure ordinance checks: promotion checkpoints,
// name-removal risk, advancement eligibility, and registration constraints.
// Every function is a total, side-effect-free computation over its inputs;
// negative outcomes are returned as data, never as errors.
package rules

import "fmt"

// checkpoint is one even-semester promotion gate. A zero partialThrough
// means the gate has no partial-sum condition.
type checkpoint struct {
	minTotal       int
	partialThrough int
	minPartial     int
}

var checkpoints = map[int]checkpoint{
	2: {minTotal: 16},
	4: {minTotal: 60, partialThrough: 2, minPartial: 36},
	6: {minTotal: 108, partialThrough: 4, minPartial: 80},
}

var semesterWords = map[int]string{2: "two", 4: "four"}

// CheckPromotion evaluates the promotion gate for the given semester.
// Checks exist only at semesters 2, 4 and 6; everywhere else the result is
// vacuously true. The total-credit condition is evaluated before the
// partial sum and wins the reason string when both fail.
func CheckPromotion(currentSemester, totalCredits int, semesterCredits map[int]int) (bool, string) {
	cp, ok := checkpoints[currentSemester]
	if !ok {
		return true, "Promotion check not applicable at this semester"
	}
	if totalCredits < cp.minTotal {
		return false, fmt.Sprintf("Insufficient credits: %d/%d", totalCredits, cp.minTotal)
	}
	if cp.partialThrough > 0 {
		partial := 0
		for sem := 1; sem <= cp.partialThrough; sem++ {
			partial += semesterCredits[sem]
		}
		if partial < cp.minPartial {
			return false, fmt.Sprintf("Need %d credits from first %s semesters. Current: %d",
				cp.minPartial, semesterWords[cp.partialThrough], partial)
		}
	}
	return true, fmt.Sprintf("Promotion eligible: %d/%d credits", totalCredits, cp.minTotal)
}

// PromotionCheckpoint reports whether the semester has a promotion gate.
func PromotionCheckpoint(semester int) bool {
	_, ok := checkpoints[semester]
	return ok
}
