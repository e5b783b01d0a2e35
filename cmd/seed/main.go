// Command main runs the database seeder for Rishta.
package main

import (
	"flag"
	"log"

	"rishta/internal/config"
	"rishta/internal/database"
	"rishta/internal/seed"
)

func main() {
	numAccounts := flag.Int("accounts", 50, "Number of accounts to create")
	approveRatio := flag.Float64("approve", 0.6, "Share of accounts to approve with a random tier")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d accounts, approve=%.0f%%, clean=%v\n", *numAccounts, *approveRatio*100, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumAccounts:  *numAccounts,
		ApproveRatio: *approveRatio,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
