package config_test

import (
	"testing"

	"github.com/pongclub/ladderbot/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadLadder_Defaults(t *testing.T) {
	cfg := config.LoadLadder()

	assert.Equal(t, 1000, cfg.DefaultRating)
	assert.Equal(t, 1200, cfg.ProRatingBoundary)
	assert.Equal(t, 15, cfg.StarterBoundary)
	assert.Equal(t, 25, cfg.KStarter)
	assert.Equal(t, 15, cfg.KDefault)
	assert.Equal(t, 10, cfg.KPro)
	assert.Equal(t, -8, cfg.UTCOffsetHours)
}

func TestLoadLadder_EnvOverrides(t *testing.T) {
	t.Setenv("DEFAULT_RATING", "1500")
	t.Setenv("K_STARTER", "40")
	t.Setenv("UTC_OFFSET_HOURS", "2")

	cfg := config.LoadLadder()

	assert.Equal(t, 1500, cfg.DefaultRating)
	assert.Equal(t, 40, cfg.KStarter)
	assert.Equal(t, 2, cfg.UTCOffsetHours)
	// Untouched constants keep their stock values.
	assert.Equal(t, 15, cfg.KDefault)
}

func TestLadderConfig_EloConfig(t *testing.T) {
	t.Setenv("PRO_RATING_BOUNDARY", "1300")
	t.Setenv("K_PRO", "8")

	eloCfg := config.LoadLadder().EloConfig()

	assert.Equal(t, 1300, eloCfg.ProRatingBoundary)
	assert.Equal(t, 8, eloCfg.KPro)
	assert.Equal(t, 1000, eloCfg.DefaultRating)
	assert.Equal(t, 15, eloCfg.StarterBoundary)
}
