package academics

import (
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// GradeFromMarks converts raw marks (0-100) to a letter grade. Theory
// courses grade down to D at 35 marks; lab courses stop at C, anything
// under 45 is an E.
func GradeFromMarks(marks float64, isLab bool) types.Grade {
	switch {
	case marks >= 85:
		return types.GradeAPlus
	case marks >= 75:
		return types.GradeA
	case marks >= 65:
		return types.GradeBPlus
	case marks >= 55:
		return types.GradeB
	case marks >= 45:
		return types.GradeC
	}
	if !isLab && marks >= 35 {
		return types.GradeD
	}
	return types.GradeE
}
