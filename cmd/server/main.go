package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/spontan/internal/config"
	"github.com/example/spontan/internal/database"
	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/routes"
	"github.com/example/spontan/internal/store"
)

func main() {
	cfg := config.Load()

	var st store.Store
	switch cfg.StoreBackend {
	case "memory":
		log.Println("using in-memory store, state is lost on restart")
		mem := store.NewMemory()
		if cfg.SeedDemoData {
			if err := seedMemory(mem); err != nil {
				log.Printf("demo data seed failed: %v", err)
			}
		}
		st = mem
	default:
		db := database.Connect(cfg.DatabaseURL)
		if cfg.SeedDemoData {
			if err := database.SeedDemoData(db); err != nil {
				log.Printf("demo data seed failed: %v", err)
			}
		}
		st = store.NewGorm(db)
	}

	app := fiber.New(fiber.Config{
		AppName: "Spontan Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, st, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

func seedMemory(st store.Store) error {
	ctx := context.Background()

	barman := &models.User{
		Name:     "Alex Barman",
		Email:    "barman@spontan.app",
		Phone:    "0700000000",
		Verified: true,
		Role:     models.RoleBarman,
	}
	if err := st.CreateUser(ctx, barman); err != nil {
		return err
	}

	event := &models.Event{
		Code:     "EVT-SUMMER-VIBES",
		Name:     "Summer Vibes Party @ Club Spontan",
		StartsAt: time.Now(),
		EndsAt:   time.Now().Add(90 * 24 * time.Hour),
		Active:   true,
	}
	return st.CreateEvent(ctx, event)
}
