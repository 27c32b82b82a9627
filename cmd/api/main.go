package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"slotplanner/internal/config"
	"slotplanner/internal/database"
	"slotplanner/internal/middleware"
	"slotplanner/internal/modules/admin"
	"slotplanner/internal/modules/autofill"
	"slotplanner/internal/modules/booking"
	"slotplanner/internal/modules/catalog"
	"slotplanner/internal/modules/crew"
	"slotplanner/internal/modules/feed"
	"slotplanner/internal/modules/stats"
	"slotplanner/internal/repository"
	"slotplanner/internal/schedule"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	persister, err := buildPersister(cfg)
	if err != nil {
		log.Fatal(err)
	}

	store, err := schedule.NewStore(persister)
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	hub := feed.NewHub()
	defer hub.Close()

	catalogService := catalog.NewService(store, rng)
	catalogHandler := catalog.NewHandler(catalogService)

	crewService := crew.NewService(store)
	crewHandler := crew.NewHandler(crewService)

	bookingService := booking.NewService(store, hub, booking.Config{
		StepMinutes:     cfg.StepMinutes,
		BufferBeforeMin: cfg.BufferBeforeMin,
		BufferAfterMin:  cfg.BufferAfterMin,
	})
	bookingHandler := booking.NewHandler(bookingService)

	autofillService := autofill.NewService(store, bookingService, catalogService, rng, cfg.StepMinutes, cfg.MaxIterations)
	autofillHandler := autofill.NewHandler(autofillService)

	statsService := stats.NewService(store, bookingService)
	statsHandler := stats.NewHandler(statsService)

	adminHandler := admin.NewHandler(store)
	feedHandler := feed.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		catalogHandler.RegisterRoutes(v1)
		crewHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)
		autofillHandler.RegisterRoutes(v1)
		statsHandler.RegisterRoutes(v1)
		adminHandler.RegisterRoutes(v1)
		feedHandler.RegisterRoutes(v1)
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}

func buildPersister(cfg *config.Config) (schedule.Persister, error) {
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLStateRepository(db)
	}

	log.Println("using JSON state file:", cfg.StateFile)
	return repository.NewJSONStateRepository(cfg.StateFile), nil
}
