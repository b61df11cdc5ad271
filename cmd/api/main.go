// @title                       Campus Election API
// @version                     1.0
// @description                 Student council ballots, club enrollment and election results.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/campusvote/election-system/docs"
	"github.com/campusvote/election-system/internal/api"
	"github.com/campusvote/election-system/internal/api/handler"
	"github.com/campusvote/election-system/internal/core/service"
	"github.com/campusvote/election-system/internal/infrastructure/config"
	mongodb "github.com/campusvote/election-system/internal/infrastructure/db/mongo"
	redisdb "github.com/campusvote/election-system/internal/infrastructure/db/redis"
	"github.com/campusvote/election-system/internal/infrastructure/queue"
	"github.com/campusvote/election-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		log := logger.Get()
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "election-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Stores ---
	voters := mongodb.NewVoterRepository(db)
	candidates := mongodb.NewCandidateRepository(db)
	clubs := mongodb.NewClubRepository(db)
	ballots := mongodb.NewBallotRecorder(mongoClient, db)
	receipts := redisdb.NewReceiptCache(rdb, cfg.ReceiptTTL)

	if err := mongodb.EnsureIndexes(ctx, voters, candidates, clubs); err != nil {
		return err
	}

	// --- Services ---
	authService := service.NewAuthService(voters, cfg.JWTSecret, cfg.TokenTTL)
	ballotService := service.NewBallotService(voters, ballots, receipts, logger.Component("ballot"))
	enrollmentService := service.NewEnrollmentService(voters, clubs, logger.Component("enrollment"))
	resultsService := service.NewResultsService(voters, candidates, logger.Component("results"))
	rosterService := service.NewRosterService(voters, candidates, clubs, ballots, resultsService, receipts, logger.Component("roster"))

	if cfg.Admin.Email != "" {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		log.Info().Str("voter_id", admin.ID).Str("email", admin.Email).Msg("bootstrap admin ready")
	}

	// --- Background reconciliation ---
	reconciler := queue.NewReconciler(resultsService, cfg.ReconcileInterval, logger.Component("reconciler"))
	reconciler.Start(ctx)
	// Heal whatever drift the previous process left behind.
	reconciler.Trigger()

	e := api.NewRouter(api.Services{
		Auth:       authService,
		Ballots:    ballotService,
		Enrollment: enrollmentService,
		Results:    resultsService,
		Roster:     rosterService,
		Reconciler: reconciler,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}, api.Options{
		JWTSecret: cfg.JWTSecret,
		Log:       logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
