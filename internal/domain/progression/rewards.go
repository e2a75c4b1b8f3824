// Package progression contains the pure arithmetic of the progression
// engine: the XP reward table, the streak multiplier, and the level
// curve. Everything here is deterministic and total; state handling
// lives in the progression service.
package progression

import (
	"math"

	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// baseRewards is the fixed base XP granted per award reason.
var baseRewards = map[domain.XpReason]int64{
	domain.XpReasonCardView:     5,
	domain.XpReasonCardRetained: 10,
	domain.XpReasonCardForgot:   2,
	domain.XpReasonCardGold:     50,
	domain.XpReasonDeckComplete: 100,
	domain.XpReasonQuizSuccess:  25,
	domain.XpReasonStreak7:      200,
	domain.XpReasonStreak30:     1000,
	domain.XpReasonStreakBonus:  50,
}

// streakEligible marks the reasons whose base reward is scaled by the
// streak multiplier. Passive rewards and the streak bonuses themselves
// are granted at face value.
var streakEligible = map[domain.XpReason]bool{
	domain.XpReasonCardRetained: true,
	domain.XpReasonCardGold:     true,
	domain.XpReasonDeckComplete: true,
	domain.XpReasonQuizSuccess:  true,
}

// BaseReward returns the fixed base XP for a reason. Unknown reasons
// return 0; callers validate the reason before granting.
func BaseReward(reason domain.XpReason) int64 {
	return baseRewards[reason]
}

// IsStreakEligible reports whether awards for this reason are scaled
// by the streak multiplier.
func IsStreakEligible(reason domain.XpReason) bool {
	return streakEligible[reason]
}

// StreakMultiplier returns the reward multiplier for a streak length.
//
// The curve grows in two linear segments and caps at 3.0:
// no streak gives 1.0, days 2-7 add 0.1 per day (1.2 up to 1.7), days
// 8-30 add 0.05 per day past 7 (1.75 up to 2.85), anything longer is 3.0.
func StreakMultiplier(streakDays int) float64 {
	switch {
	case streakDays <= 1:
		return 1.0
	case streakDays <= 7:
		return 1.0 + float64(streakDays)*0.1
	case streakDays <= 30:
		return 1.7 + float64(streakDays-7)*0.05
	default:
		return 3.0
	}
}

// GrantedXP computes the XP actually granted for a reason at a given
// streak length: the base reward scaled by the streak multiplier when
// the reason is eligible, rounded half up.
func GrantedXP(reason domain.XpReason, streakDays int) int64 {
	base := BaseReward(reason)

	multiplier := 1.0
	if IsStreakEligible(reason) {
		multiplier = StreakMultiplier(streakDays)
	}

	// Round half up; operands are never negative.
	return int64(math.Floor(float64(base)*multiplier + 0.5))
}
