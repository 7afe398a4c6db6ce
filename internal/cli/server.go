package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"curriculum-editor/internal/app"
	"curriculum-editor/internal/config"
	"curriculum-editor/internal/infra/backend"
	"curriculum-editor/internal/infra/memory"
	pgstore "curriculum-editor/internal/infra/postgres"
	rediscache "curriculum-editor/internal/infra/redis"
	"curriculum-editor/internal/infra/video"
	"curriculum-editor/internal/logger"
	"curriculum-editor/internal/payload"
	transport "curriculum-editor/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the editor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	host, _ := os.Hostname()
	logs := logger.New(log.Default(), logger.RollbarConfig{
		Token:       cfg.Rollbar.Token,
		Environment: cfg.Rollbar.Environment,
		Host:        host,
	})
	if rb, ok := logs.(*logger.RollbarLogger); ok {
		defer rb.Close()
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	deps, err := buildDependencies(ctx, cfg, logs)
	if err != nil {
		return err
	}
	service := app.NewEditorService(deps)
	wsHandler := transport.NewWSHandler(service, logs)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	wsHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logs.Info("starting curriculum editor", map[string]interface{}{"port": finalPort})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Error("failed to start server", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logs.Info("shutting down server...")
	case <-ctx.Done():
		logs.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildDependencies picks an implementation per port. The backend API wins over Postgres,
// which wins over the in-memory sample data; Redis, when configured, holds sessions and caches.
func buildDependencies(ctx context.Context, cfg config.Config, logs logger.Logger) (app.Dependencies, error) {
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	collapseTTL := config.TTLDuration(cfg.Collapse.TTL, 30*24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return app.Dependencies{}, err
		}
	}

	deps := app.Dependencies{
		Money:        payload.NewMoney(cfg.Money.Locale),
		Logger:       logs,
		RefreshLimit: cfg.Video.RefreshLimit,
		Videos: video.NewDefaultRouter(video.Config{
			YouTubeKey: cfg.Video.YouTubeKey,
			Timeout:    config.TTLDuration(cfg.Video.Timeout, 10*time.Second),
		}),
	}

	var loader memory.BankLoader
	switch {
	case cfg.Backend.URL != "":
		client := backend.NewClient(backend.Config{
			BaseURL: cfg.Backend.URL,
			Token:   cfg.Backend.Token,
			Timeout: config.TTLDuration(cfg.Backend.Timeout, 15*time.Second),
		})
		deps.Courses = client
		deps.Uploads = client
		loader = client
	case pool != nil:
		deps.Courses = pgstore.NewCourseStore(pool)
		loader = pgstore.NewBankLoader(pool)
	default:
		deps.Courses = memory.NewCourseRepository(sampleCourses()...)
		loader = memory.NewStaticBankLoader(sampleBankModules(), sampleBankActivities())
	}

	if redisClient != nil {
		deps.Sessions = rediscache.NewSessionStore(redisClient, sessionTTL)
		deps.Bank = rediscache.NewBankRepository(redisClient, loader, bankTTL)
		deps.Collapse = rediscache.NewCollapseRepository(redisClient, collapseTTL)
	} else {
		deps.Sessions = memory.NewSessionStore()
		deps.Bank = memory.NewBankRepository(loader, bankTTL)
		deps.Collapse = memory.NewCollapseRepository()
	}
	return deps, nil
}

// sampleCourses seeds the in-memory store when no backend or database is configured.
func sampleCourses() []payload.CourseRecord {
	return []payload.CourseRecord{{
		ID:           "course-1",
		Name:         "go-fundamentals",
		Title:        "Go Fundamentals",
		DurationUnit: "hrs",
		Duration:     1,
		Price:        "199.90",
		Installments: 3,
		Modules: []payload.ModuleRecord{{
			Title: "Getting started", DurationUnit: "min", Duration: 45, Active: true,
			Activities: []payload.ActivityRecord{
				{Title: "Welcome", Type: "video", Content: "https://youtu.be/YS4e4q9oBaU", DurationUnit: "min", Duration: 15, Active: true},
				{Title: "Installing Go", Type: "reading", Content: "<p>Download the toolchain.</p>", Description: "<p>Download the toolchain.</p>", DurationUnit: "min", Duration: 30, Active: true},
			},
		}},
	}}
}

func sampleBankModules() []payload.ModuleRecord {
	return []payload.ModuleRecord{{
		ID: "1", Title: "Testing basics", DurationUnit: "min", Active: true,
		Activities: []payload.ActivityRecord{
			{Title: "Table tests", Type: "reading", Content: "<p>Write table tests.</p>", DurationUnit: "min", Duration: 20, Active: true},
		},
	}}
}

func sampleBankActivities() []payload.ActivityRecord {
	return []payload.ActivityRecord{
		{ID: "1", Title: "Concurrency quiz", Type: "quiz", DurationUnit: "min", Duration: 10, Active: true,
			QuizConfig: &payload.QuizConfigRecord{PassingScore: 70, MaxAttempts: 3},
			QuizQuestions: []payload.QuizQuestionRecord{{
				ID: "q1", QuestionType: "multiple_choice", Prompt: "Which keyword starts a goroutine?", Points: 1,
				Options: []payload.QuizOptionRecord{
					{ID: "o1", Text: "go", IsCorrect: true},
					{ID: "o2", Text: "async"},
				},
			}},
		},
	}
}
