package config

import "github.com/pongclub/ladderbot/internal/elo"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	Ladder        LadderConfig
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// LadderConfig carries the rating constants and the fixed local offset used
// for calendar windows.
type LadderConfig struct {
	DefaultRating     int
	ProRatingBoundary int
	StarterBoundary   int
	KStarter          int
	KDefault          int
	KPro              int
	UTCOffsetHours    int
}

// EloConfig maps the ladder constants onto the rating engine's config.
func (c LadderConfig) EloConfig() elo.Config {
	return elo.Config{
		DefaultRating:     c.DefaultRating,
		ProRatingBoundary: c.ProRatingBoundary,
		StarterBoundary:   c.StarterBoundary,
		KStarter:          c.KStarter,
		KDefault:          c.KDefault,
		KPro:              c.KPro,
	}
}
