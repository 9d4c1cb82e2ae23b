package rules

import (
	"fmt"

	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// MaxNotPromoted is the non-promotion count at which the name-removal
// ordinance applies.
const MaxNotPromoted = 3

// CheckNameRemovalRisk classifies name-removal exposure from the count of
// past non-promotions. The mapping is a total order on thresholds.
func CheckNameRemovalRisk(notPromotedCount int) (types.RiskLevel, types.RiskAction, string) {
	switch {
	case notPromotedCount >= MaxNotPromoted:
		return types.RiskCritical, types.ActionNameRemoval,
			fmt.Sprintf("Name will be removed: not promoted %d times (max %d)", notPromotedCount, MaxNotPromoted)
	case notPromotedCount == 2:
		return types.RiskHigh, types.ActionWarning,
			"WARNING: not promoted 2 times, one more failure leads to name removal"
	case notPromotedCount == 1:
		return types.RiskMedium, types.ActionCaution,
			"CAUTION: not promoted once, be careful"
	default:
		return types.RiskLow, types.ActionSafe, "Good standing"
	}
}
