package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/config"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/repository"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var week string

	flag.IntVar(&op, "op", 0, "operation (1: insert random staff, 2: seed shift catalog, 3: seed staffing requirements, 4: seed availability, 5: full demo data)")
	flag.IntVar(&n, "n", 20, "number of staff to insert (op 1)")
	flag.StringVar(&week, "week", "", "week start YYYY-MM-DD for ops 3 and 4, defaults to next week")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not dial, so ping to surface connection problems now.
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	weekStart := roster.WeekStartForOffset(time.Now(), 1)
	if week != "" {
		parsed, err := roster.ParseDate(week)
		if err != nil {
			logger.Error("week must be YYYY-MM-DD", slog.String("week", week))
			return
		}
		weekStart = roster.WeekStart(parsed)
	}

	switch op {
	case 0:
		logger.Error("no operation given")
	case 1:
		if n <= 0 {
			logger.Error("staff count must be positive")
			return
		}
		inserted := seed.SeedStaff(repo, cfg.Seed.User.Password, n)
		logger.Info("inserted staff", slog.Int("count", inserted))
	case 2:
		if err := seed.SeedCatalog(repo); err != nil {
			logger.Error("failed to seed the shift catalog", slog.String("error", err.Error()))
			return
		}
		logger.Info("seeded shift catalog")
	case 3:
		if err := seed.SeedRequirements(repo, weekStart); err != nil {
			logger.Error("failed to seed staffing requirements", slog.String("error", err.Error()))
			return
		}
		logger.Info("seeded staffing requirements", slog.String("week", roster.FormatDate(weekStart)))
	case 4:
		submitted, err := seed.SeedAvailability(repo, weekStart)
		if err != nil {
			logger.Error("failed to seed availability", slog.String("error", err.Error()))
			return
		}
		logger.Info("seeded availability", slog.Int("count", submitted), slog.String("week", roster.FormatDate(weekStart)))
	case 5:
		seed.SeedDemoData(repo, logger, cfg.Seed.User.Password)
	default:
		logger.Error("unknown operation", slog.Int("op", op))
	}
}
