package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"slotplanner/internal/config"
	"slotplanner/internal/database"
	"slotplanner/internal/modules/autofill"
	"slotplanner/internal/modules/booking"
	"slotplanner/internal/modules/catalog"
	"slotplanner/internal/repository"
	"slotplanner/internal/schedule"
)

// Seed wipes the stored state back to defaults, installs a demo catalogue
// and fills tomorrow's schedule once, so a fresh checkout has something to
// look at.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var persister schedule.Persister
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("DB connection failed:", err)
		}
		persister, err = repository.NewSQLStateRepository(db)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		persister = repository.NewJSONStateRepository(cfg.StateFile)
	}

	store, err := schedule.NewStore(persister)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("resetting state to defaults...")
	if err := store.Reset(); err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	catalogService := catalog.NewService(store, rng)
	if _, warnings, err := catalogService.Update(
		"Standard, 60, 1.0\nExpress, 30, 2.0\nRozszerzony, 120, 0.5",
	); err != nil {
		log.Fatal(err)
	} else if len(warnings) > 0 {
		log.Println("catalogue warnings:", warnings)
	}

	bookingService := booking.NewService(store, nil, booking.Config{
		StepMinutes:     cfg.StepMinutes,
		BufferBeforeMin: cfg.BufferBeforeMin,
		BufferAfterMin:  cfg.BufferAfterMin,
	})
	autofillService := autofill.NewService(store, bookingService, catalogService, rng, cfg.StepMinutes, cfg.MaxIterations)

	day := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	created, err := autofillService.Fill(day, 0)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("seed complete: %d demo bookings for %s", created, day)
}
