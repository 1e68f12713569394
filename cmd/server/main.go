package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/ecomm/internal/config"
	"github.com/example/ecomm/internal/database"
	"github.com/example/ecomm/internal/events"
	"github.com/example/ecomm/internal/handlers"
	"github.com/example/ecomm/internal/idempotency"
	"github.com/example/ecomm/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)

	var store idempotency.Store
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStore, err := idempotency.NewRedisStore(ctx, cfg.RedisURL, cfg.IdempotencyTTL)
		cancel()
		if err != nil {
			log.Printf("Redis unavailable, checkout idempotency disabled: %v", err)
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Printf("Publishing order events to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}
	defer publisher.Close()

	app := fiber.New(fiber.Config{
		AppName:      "Ecomm Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, store, publisher)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Printf("fiber.Listen error: %v", err)
	}
}
