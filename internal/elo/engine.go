package elo

import "math"

// Engine applies Elo-style rating updates. It is pure: no clock, no I/O, no
// hidden state beyond the configured constants.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given constants. Zero values fall back
// to DefaultConfig so a partially-populated config still behaves.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.DefaultRating == 0 {
		cfg.DefaultRating = def.DefaultRating
	}
	if cfg.ProRatingBoundary == 0 {
		cfg.ProRatingBoundary = def.ProRatingBoundary
	}
	if cfg.StarterBoundary == 0 {
		cfg.StarterBoundary = def.StarterBoundary
	}
	if cfg.KStarter == 0 {
		cfg.KStarter = def.KStarter
	}
	if cfg.KDefault == 0 {
		cfg.KDefault = def.KDefault
	}
	if cfg.KPro == 0 {
		cfg.KPro = def.KPro
	}
	return &Engine{cfg: cfg}
}

// Config returns the constants the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// DefaultState is the implicit state of a player who has never played.
func (e *Engine) DefaultState() PlayerState {
	return PlayerState{Rating: e.cfg.DefaultRating}
}

// Starter reports whether a player is still in the provisional phase.
func (e *Engine) Starter(s PlayerState) bool {
	return s.GamesPlayed < e.cfg.StarterBoundary
}

// Classify buckets a player. Pro is sticky and wins over starter.
func (e *Engine) Classify(s PlayerState) Classification {
	switch {
	case s.Pro:
		return ClassPro
	case e.Starter(s):
		return ClassStarter
	default:
		return ClassStandard
	}
}

// kFactor selects K from the pre-match state. A player already at pro rating
// moves slowly even before the sticky flag is persisted.
func (e *Engine) kFactor(s PlayerState) int {
	switch {
	case s.Pro || s.Rating >= e.cfg.ProRatingBoundary:
		return e.cfg.KPro
	case e.Starter(s):
		return e.cfg.KStarter
	default:
		return e.cfg.KDefault
	}
}

// expectedScore is the classic Elo expectation for a against b.
func expectedScore(a, b int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/400.0))
}

// ApplyOutcome computes both players' post-match states for a decided game.
// The winner scores 1, the loser 0. The signed delta is rounded before it is
// applied, so with identical K both deltas are exact negatives of each other.
// The pro flag in each result is the sticky OR of the incoming flag and the
// post-match boundary check.
func (e *Engine) ApplyOutcome(winner, loser PlayerState) (Result, Result) {
	expWinner := expectedScore(winner.Rating, loser.Rating)
	expLoser := 1.0 - expWinner

	winnerDelta := int(math.Round(float64(e.kFactor(winner)) * (1.0 - expWinner)))
	loserDelta := int(math.Round(float64(e.kFactor(loser)) * (0.0 - expLoser)))

	newWinner := winner.Rating + winnerDelta
	newLoser := loser.Rating + loserDelta

	w := Result{
		Rating:      newWinner,
		GamesPlayed: winner.GamesPlayed + 1,
		Pro:         winner.Pro || newWinner >= e.cfg.ProRatingBoundary,
		Delta:       winnerDelta,
	}
	l := Result{
		Rating:      newLoser,
		GamesPlayed: loser.GamesPlayed + 1,
		Pro:         loser.Pro || newLoser >= e.cfg.ProRatingBoundary,
		Delta:       loserDelta,
	}
	return w, l
}

// State converts a result back into a player state, for chained replays.
func (r Result) State() PlayerState {
	return PlayerState{Rating: r.Rating, GamesPlayed: r.GamesPlayed, Pro: r.Pro}
}
