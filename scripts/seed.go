// Seed script for creating demo data.
// Run with: go run ./scripts/seed.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/config"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
)

var demoPapers = []domain.Paper{
	{
		ID:             "demo_cardiac_1",
		Title:          "Heart-focused anxiety and benign palpitations in primary care",
		URL:            "https://www.semanticscholar.org/paper/demo_cardiac_1",
		Context:        domain.ContextCardiacEvent,
		CitationCount:  640,
		RelevanceScore: 0.85,
	},
	{
		ID:             "demo_cardiac_2",
		Title:          "Panic symptoms mistaken for cardiac events: an emergency department cohort",
		URL:            "https://www.semanticscholar.org/paper/demo_cardiac_2",
		Context:        domain.ContextCardiacEvent,
		CitationCount:  310,
		RelevanceScore: 0.7,
	},
	{
		ID:             "demo_metabolic_1",
		Title:          "Perceived hypoglycaemia and health anxiety in adults without diabetes",
		URL:            "https://www.semanticscholar.org/paper/demo_metabolic_1",
		Context:        domain.ContextMetabolicCrash,
		CitationCount:  180,
		RelevanceScore: 0.75,
	},
	{
		ID:             "demo_social_1",
		Title:          "Overestimation of social cost in social anxiety disorder",
		URL:            "https://www.semanticscholar.org/paper/demo_social_1",
		Context:        domain.ContextSocialRejection,
		CitationCount:  920,
		RelevanceScore: 0.9,
	},
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, config.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	fmt.Println("Connected to database")

	// Create demo user
	apiKey, err := middleware.GenerateAPIKey()
	if err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}
	user := &domain.User{Name: "Demo User", APIKeyHash: middleware.HashAPIKey(apiKey)}
	if err := store.NewUserStore(pool).Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("Created user: %s\n", user.ID)
	fmt.Printf("API Key: %s\n", apiKey)
	fmt.Println("(Save this API key - it cannot be retrieved later)")

	// Literature
	n, err := store.NewPaperStore(pool).Upsert(ctx, demoPapers)
	if err != nil {
		log.Fatalf("Failed to store papers: %v", err)
	}
	fmt.Printf("Stored %d papers\n", n)

	// A week of daily logs ending today
	logs := store.NewDailyLogStore(pool)
	qualities := []domain.SleepQuality{domain.SleepPoor, domain.SleepAverage, domain.SleepAverage, domain.SleepGood, domain.SleepGood, domain.SleepGood, domain.SleepExcellent}
	moods := []domain.MoodStatus{domain.MoodAnxious, domain.MoodAnxious, domain.MoodTired, domain.MoodTired, domain.MoodFocused, domain.MoodFocused, domain.MoodRelaxed}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := range 7 {
		sleep, exercise, stress := 360+i*15, 10+i*5, 8-i
		l := &domain.DailyLog{
			UserID:                  user.ID,
			LogDate:                 today.AddDate(0, 0, i-6),
			SleepDurationMinutes:    &sleep,
			SleepQuality:            &qualities[i],
			ExerciseDurationMinutes: &exercise,
			MoodStatus:              &moods[i],
			StressLevel:             &stress,
		}
		if err := logs.Create(ctx, l); err != nil {
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			log.Printf("Warning: Failed to create log for %s: %v", l.LogDate.Format(domain.DateLayout), err)
		}
	}
	fmt.Println("Created 7 daily logs")

	fmt.Println("\n=== Seed Complete ===")
	fmt.Println("\nTo test the API, use:")
	fmt.Printf("curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/trends\n", apiKey)
	fmt.Printf("\nTo search literature:")
	fmt.Printf("\ncurl -H 'Authorization: Bearer %s' http://localhost:8080/v1/evidence/cardiac_event\n", apiKey)
}
