package main

import (
	"context"
	"log"
	"time"

	"ai-chatbot-be/internal/bootstrap"
	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/server"
	"ai-chatbot-be/internal/tracer"
	"ai-chatbot-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Analytics Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Domain events (USER_*) flow back from NATS into the analytics table
	if err := container.UserEventService.Start(); err != nil {
		log.Printf("Background User Event Consumer Error: %v", err)
	}

	// Session sweeper: expired sessions are dropped on an interval so the
	// sessions table only holds live or recently expired rows.
	go func() {
		interval := time.Duration(cfg.Session.SweepIntervalMin) * time.Minute
		if interval <= 0 {
			interval = 30 * time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := container.ChatService.SweepExpired(context.Background()); err != nil {
				log.Printf("Background Sweeper Error: %v", err)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
