package elo

// Config holds the tunable rating constants. The K tiers mirror the classic
// club ladder setup: new players move fast, pros move slow.
type Config struct {
	DefaultRating     int
	ProRatingBoundary int
	StarterBoundary   int
	KStarter          int
	KDefault          int
	KPro              int
}

// DefaultConfig returns the stock ladder constants.
func DefaultConfig() Config {
	return Config{
		DefaultRating:     1000,
		ProRatingBoundary: 1200,
		StarterBoundary:   15,
		KStarter:          25,
		KDefault:          15,
		KPro:              10,
	}
}

// PlayerState is the rating-relevant snapshot of a player going into a match.
type PlayerState struct {
	Rating      int
	GamesPlayed int
	Pro         bool
}

// Result is the post-match state for one participant, plus the signed rating
// change for display.
type Result struct {
	Rating      int
	GamesPlayed int
	Pro         bool
	Delta       int
}

// Classification buckets players for K selection and display.
type Classification string

const (
	ClassStarter  Classification = "starter"
	ClassStandard Classification = "standard"
	ClassPro      Classification = "pro"
)
