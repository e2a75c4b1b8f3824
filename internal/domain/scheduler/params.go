package scheduler

// Params defines all configurable parameters for the review scheduling
// algorithm. The rating-to-quality mapping is deliberately not part of
// the params: it is a fixed contract with the caller.
type Params struct {
	// Core limits
	MinEaseFactor float64

	// SuccessQuality is the minimum quality that counts as a successful
	// recall. Anything below it resets the repetition state.
	SuccessQuality int

	// Graduating intervals for the first two successful reviews, in days.
	FirstIntervalDays  int
	SecondIntervalDays int

	// Status thresholds
	MasteredIntervalDays     int // interval at which a card counts as mastered
	GoldConsecutiveSuccesses int // successes needed on top of mastery for gold
	ReviewRepetitions        int // repetitions at which a card enters review
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor            float64
	SuccessQuality           int
	FirstIntervalDays        int
	SecondIntervalDays       int
	MasteredIntervalDays     int
	GoldConsecutiveSuccesses int
	ReviewRepetitions        int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,

		SuccessQuality: 3,

		FirstIntervalDays:  1,
		SecondIntervalDays: 6,

		MasteredIntervalDays:     21,
		GoldConsecutiveSuccesses: 5,
		ReviewRepetitions:        2,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.SuccessQuality > 0 {
		params.SuccessQuality = config.SuccessQuality
	}
	if config.FirstIntervalDays > 0 {
		params.FirstIntervalDays = config.FirstIntervalDays
	}
	if config.SecondIntervalDays > 0 {
		params.SecondIntervalDays = config.SecondIntervalDays
	}
	if config.MasteredIntervalDays > 0 {
		params.MasteredIntervalDays = config.MasteredIntervalDays
	}
	if config.GoldConsecutiveSuccesses > 0 {
		params.GoldConsecutiveSuccesses = config.GoldConsecutiveSuccesses
	}
	if config.ReviewRepetitions > 0 {
		params.ReviewRepetitions = config.ReviewRepetitions
	}

	return params
}
