package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/pongclub/ladderbot/internal/config"
	"github.com/pongclub/ladderbot/internal/database"
	"github.com/pongclub/ladderbot/internal/elo"
	"github.com/pongclub/ladderbot/internal/ladder"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	if value, ok := os.LookupEnv("DB_NAME"); ok {
		config["DB_NAME"] = value
	} else {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], "./migrations")
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.")

	names := []string{"ann", "bob", "cleo", "dave", "erin", "finn", "gwen", "hugo"}

	const batchSize = 100
	const numMatches = 2000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	// The ledger replays in chronological order, so generate the timestamps
	// first and sort them so insertion order matches play order.
	timestamps := make([]time.Time, numMatches)
	for i := range timestamps {
		timestamps[i] = time.Now().UTC().Add(-time.Duration(rand.Intn(60*24*60)) * time.Minute)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*3)

	for i := 0; i < numMatches; i++ {
		winner := names[rand.Intn(len(names))]
		loser := names[rand.Intn(len(names))]
		for loser == winner {
			loser = names[rand.Intn(len(names))]
		}

		valueStrings = append(valueStrings, "(?, ?, ?)")
		valueArgs = append(valueArgs, winner, loser, timestamps[i].Format(time.RFC3339))

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (winner, loser, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*3)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	// Replay the seeded ledger so ratings, game counts and histories line up.
	// The engine reads the same rating-constant overrides the server does.
	store := ladder.New(db, elo.NewEngine(config.LoadLadder().EloConfig()))
	log.Info("Rebuilding player state from the seeded ledger...")
	if err := store.RebuildAll(); err != nil {
		log.Fatalf("Failed to rebuild player state: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded matches and rebuilt player state.", "duration", duration)
}
