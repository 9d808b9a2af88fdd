package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetgrid/partcompat/internal/ai"
	"github.com/fleetgrid/partcompat/internal/config"
	"github.com/fleetgrid/partcompat/internal/database"
	"github.com/fleetgrid/partcompat/internal/handlers"
	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/fleetgrid/partcompat/internal/services/erp"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Organization{},
		&models.OrgMembership{},

		// Domain models
		&models.InventoryItem{},
		&models.Equipment{},
		&models.EquipmentPartLink{},
		&models.PMTemplate{},

		// Compatibility engine
		&models.CompatibilityRule{},
		&models.PartIdentifier{},
		&models.AlternateGroup{},
		&models.AlternateGroupMember{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Optional AI suggester (absent without GEMINI_API_KEY)
	suggester, err := ai.NewSuggester(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.Model)
	if err != nil {
		log.Printf("⚠️ AI: Failed to init suggester: %v", err)
	} else if suggester.Available() {
		log.Println("✅ AI: Suggestion service ready")
	}

	// 5. Set up HTTP router
	router := handlers.NewRouter(db, cfg, suggester)

	// 6. Start ERP import service (Background)
	erpService := erp.NewImportService(db, cfg.ERP)
	erpService.Start()

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	erpService.Stop()
	suggester.Close()

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
