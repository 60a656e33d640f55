package main

import (
	"fmt"
	"log"

	"github.com/affectsense/wearable-affect/internal/config"
	"github.com/affectsense/wearable-affect/internal/seed"
)

func main() {
	cfg := config.Load()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	fmt.Println("\nSample participant IDs for testing:")
	for _, id := range []string{"pilot-001", "pilot-002", "pilot-003"} {
		fmt.Printf("  %s\n", id)
	}
}
