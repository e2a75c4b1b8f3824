package scheduler

import "testing"

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	if params.MinEaseFactor != 1.3 {
		t.Errorf("Expected minimum ease factor 1.3, got %f", params.MinEaseFactor)
	}

	if params.SuccessQuality != 3 {
		t.Errorf("Expected success quality 3, got %d", params.SuccessQuality)
	}

	if params.FirstIntervalDays != 1 || params.SecondIntervalDays != 6 {
		t.Errorf(
			"Expected graduating intervals 1 and 6, got %d and %d",
			params.FirstIntervalDays,
			params.SecondIntervalDays,
		)
	}

	if params.MasteredIntervalDays != 21 {
		t.Errorf("Expected mastered interval 21, got %d", params.MasteredIntervalDays)
	}

	if params.GoldConsecutiveSuccesses != 5 {
		t.Errorf("Expected gold threshold 5, got %d", params.GoldConsecutiveSuccesses)
	}

	if params.ReviewRepetitions != 2 {
		t.Errorf("Expected review threshold 2, got %d", params.ReviewRepetitions)
	}
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		MinEaseFactor:        1.5,
		MasteredIntervalDays: 30,
	})

	if params.MinEaseFactor != 1.5 {
		t.Errorf("Expected overridden minimum ease factor 1.5, got %f", params.MinEaseFactor)
	}

	if params.MasteredIntervalDays != 30 {
		t.Errorf("Expected overridden mastered interval 30, got %d", params.MasteredIntervalDays)
	}

	// Untouched fields keep their defaults.
	if params.FirstIntervalDays != 1 || params.SecondIntervalDays != 6 {
		t.Errorf(
			"Expected default graduating intervals, got %d and %d",
			params.FirstIntervalDays,
			params.SecondIntervalDays,
		)
	}
}

func TestNewParamsZeroConfigKeepsDefaults(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{})
	defaults := NewDefaultParams()

	if *params != *defaults {
		t.Errorf("Expected defaults %+v, got %+v", defaults, params)
	}
}
