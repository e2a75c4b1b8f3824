package progression

import "testing"

func TestLevelXPForLevelRoundTrip(t *testing.T) {
	t.Parallel()

	// The two functions are exact inverses at every level boundary.
	for level := 1; level <= 120; level++ {
		xp := XPForLevel(level)
		if got := Level(xp); got != level {
			t.Errorf("Level(XPForLevel(%d)) = %d, want %d (xp=%d)", level, got, level, xp)
		}

		// One XP short of the boundary still belongs to the previous level.
		if level > 1 {
			if got := Level(xp - 1); got != level-1 {
				t.Errorf("Level(%d) = %d, want %d", xp-1, got, level-1)
			}
		}
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		xp       int64
		expected int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{10000, 11},
	}

	for _, tc := range testCases {
		if got := Level(tc.xp); got != tc.expected {
			t.Errorf("Level(%d) = %d, want %d", tc.xp, got, tc.expected)
		}
	}
}

func TestLevelNegativeXP(t *testing.T) {
	t.Parallel()

	if got := Level(-50); got != 1 {
		t.Errorf("Level(-50) = %d, want 1", got)
	}

	if got := XPForLevel(0); got != 0 {
		t.Errorf("XPForLevel(0) = %d, want 0", got)
	}
}

func TestProgressToNextLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		xp       int64
		expected float64
	}{
		{"level start", 100, 0.0},
		{"halfway through level 2", 250, 0.5},
		{"fresh profile", 0, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProgressToNextLevel(tc.xp)
			if got != tc.expected {
				t.Errorf("ProgressToNextLevel(%d) = %f, want %f", tc.xp, got, tc.expected)
			}
		})
	}
}
