// Command reminders runs a one-off rent-reminder scan. Intended for cron or
// manual operator use when the API process is not running its own schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kmuchiri/nyumba-api/internal/config"
	"github.com/kmuchiri/nyumba-api/internal/database"
	"github.com/kmuchiri/nyumba-api/internal/jobs"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/services"
	"github.com/kmuchiri/nyumba-api/pkg/logger"
)

func main() {
	kind := flag.String("kind", "all", "which scan to run: upcoming, late, or all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)
	worker := jobs.NewWorker(cfg.WorkerCount)
	defer worker.Shutdown()

	svcs := services.NewServices(repos, cfg, worker)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	failed := false

	if *kind == "upcoming" || *kind == "all" {
		summary, err := svcs.Reminder.RunUpcomingReminders(ctx)
		if err != nil {
			logger.Error("Upcoming reminder scan failed", "error", err)
			failed = true
		} else {
			fmt.Printf("upcoming: %d dispatched, skipped: %v\n", summary.Dispatched, summary.Skipped)
		}
	}

	if *kind == "late" || *kind == "all" {
		summary, err := svcs.Reminder.RunLateReminders(ctx)
		if err != nil {
			logger.Error("Late reminder scan failed", "error", err)
			failed = true
		} else {
			fmt.Printf("late: %d dispatched, skipped: %v\n", summary.Dispatched, summary.Skipped)
		}
	}

	if failed {
		os.Exit(1)
	}
}
