package progression

import "math"

// xpPerLevelUnit is the quadratic coefficient of the level curve:
// level n starts at (n-1)^2 * 100 XP.
const xpPerLevelUnit = 100

// Level returns the level reached at a given XP total.
// Levels start at 1; the curve is the exact inverse of XPForLevel.
func Level(xp int64) int {
	if xp < 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/xpPerLevelUnit))) + 1
}

// XPForLevel returns the XP total at which a level begins.
func XPForLevel(level int) int64 {
	if level < 1 {
		return 0
	}
	n := int64(level - 1)
	return n * n * xpPerLevelUnit
}

// ProgressToNextLevel reports how far into the current level an XP
// total is, as a fraction in [0, 1).
func ProgressToNextLevel(xp int64) float64 {
	current := Level(xp)
	floor := XPForLevel(current)
	ceil := XPForLevel(current + 1)
	return float64(xp-floor) / float64(ceil-floor)
}
