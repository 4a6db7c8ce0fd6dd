package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/example/rehearsal-scheduler/internal/application"
	"github.com/example/rehearsal-scheduler/internal/cache"
	"github.com/example/rehearsal-scheduler/internal/config"
	httptransport "github.com/example/rehearsal-scheduler/internal/http"
	"github.com/example/rehearsal-scheduler/internal/persistence"
	"github.com/example/rehearsal-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if err := pool.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	users := sqlite.NewUserRepository(pool)
	bands := sqlite.NewBandRepository(pool)
	songs := sqlite.NewSongRepository(pool)
	setlists := sqlite.NewSetlistRepository(pool)
	rehearsals := sqlite.NewRehearsalRepository(pool)
	attendance := sqlite.NewAttendanceRepository(pool)
	availability := sqlite.NewAvailabilityRepository(pool)
	sessions := sqlite.NewSessionRepository(pool)
	notifications := sqlite.NewNotificationRepository(pool)

	userAdapter := &userRepositoryAdapter{users: users}
	bandAdapter := &bandRepositoryAdapter{bands: bands}
	songAdapter := &songRepositoryAdapter{songs: songs}
	setlistAdapter := &setlistRepositoryAdapter{setlists: setlists}
	rehearsalAdapter := &rehearsalRepositoryAdapter{rehearsals: rehearsals}
	attendanceAdapter := &attendanceRepositoryAdapter{attendance: attendance}
	availabilityAdapter := &availabilityRepositoryAdapter{windows: availability}
	sessionAdapter := &sessionRepositoryAdapter{sessions: sessions}
	notificationAdapter := &notificationRepositoryAdapter{notifications: notifications}
	credentialAdapter := &credentialStoreAdapter{users: users}

	var predictions application.PredictionCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}()
		predictions = cache.NewRedisPredictionCache(client, cfg.PredictionCacheTTL, logger)
		logger.Info("using redis prediction cache", "addr", cfg.RedisAddr)
	} else {
		predictions = cache.NewMemoryPredictionCache(cfg.PredictionCacheTTL, 0, nil)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	hashPassword := func(password string) (string, error) {
		return application.CreatePasswordHash(password, application.DefaultArgon2idParams)
	}

	authService := application.NewAuthServiceWithLogger(credentialAdapter, sessionAdapter, application.VerifyPassword, tokenGenerator, time.Now, cfg.SessionTTL, logger)
	userService := application.NewUserService(userAdapter, hashPassword, idGenerator, time.Now)
	bandService := application.NewBandService(bandAdapter, userAdapter, idGenerator, time.Now)
	songService := application.NewSongService(songAdapter, bandAdapter, idGenerator, time.Now)
	setlistService := application.NewSetlistService(setlistAdapter, songAdapter, bandAdapter, idGenerator, time.Now)
	rehearsalService := application.NewRehearsalServiceWithLogger(rehearsalAdapter, bandAdapter, attendanceAdapter, availabilityAdapter, setlistAdapter, predictions, idGenerator, time.Now, logger)
	availabilityService := application.NewAvailabilityService(availabilityAdapter, predictions, idGenerator, time.Now)
	notificationService := application.NewNotificationServiceWithLogger(notificationAdapter, rehearsalAdapter, bandAdapter, idGenerator, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          httptransport.NewAuthHandler(authService, logger),
		Users:         httptransport.NewUserHandler(userService, logger),
		Bands:         httptransport.NewBandHandler(bandService, rehearsalService, logger),
		Songs:         httptransport.NewSongHandler(songService, logger),
		Setlists:      httptransport.NewSetlistHandler(setlistService, logger),
		Rehearsals:    httptransport.NewRehearsalHandler(rehearsalService, notificationService, logger),
		Availability:  httptransport.NewAvailabilityHandler(availabilityService, logger),
		Notifications: httptransport.NewNotificationHandler(notificationService, logger),
		Logger:        logger,
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	root := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOpenPath(r) {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := notificationService.GenerateRehearsalReminders(jobCtx, cfg.ReminderLead); err != nil {
			logger.Error("reminder generation failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule reminder job: %w", err)
	}
	if _, err := scheduler.AddFunc("@hourly", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := authService.PruneExpiredSessions(jobCtx); err != nil {
			logger.Error("session pruning failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule session pruning job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.HTTPPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// isOpenPath reports whether the route is reachable without a session.
func isOpenPath(r *http.Request) bool {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/sessions":
		return true
	case r.Method == http.MethodPost && r.URL.Path == "/users":
		return true
	}
	return false
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(buf)
}

// mapStorageError translates persistence sentinels into the application's
// error vocabulary.
func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}
