package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/config"
	"github.com/millbrook-pd/roster/backend/internal/domain"
	"github.com/millbrook-pd/roster/backend/internal/repository"
	"github.com/millbrook-pd/roster/backend/internal/seed"
	"github.com/millbrook-pd/roster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random users, 2: insert random officers, 3: insert demo precinct data)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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

	// sql.Open does not connect, ping to verify the DSN actually works
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("invalid user count")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, "millbrookpd.example.org")
			if err != nil {
				slog.Error("failed to generate random user", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(ctx, user); err != nil {
				slog.Error("failed to insert user", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("users inserted", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("invalid officer count")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			firstName, lastName := utils.GenerateRandomOfficerName()
			officer := &domain.OfficerProfile{
				FirstName:   firstName,
				LastName:    lastName,
				BadgeNumber: utils.GenerateRandomBadgeNumber(),
				Rank:        domain.RankOfficer,
				HireDate:    utils.GenerateRandomHireDate(20),
			}
			if rand.Intn(5) == 0 {
				officer.Rank = domain.RankProbationary
				officer.HireDate = utils.GenerateRandomHireDate(2)
			}

			if err := repo.CreateOfficer(ctx, officer); err != nil {
				slog.Error("failed to insert officer", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("officers inserted", slog.Int("count", n-cnt))
	case 3:
		seed.SeedDemoData(repo)
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}
