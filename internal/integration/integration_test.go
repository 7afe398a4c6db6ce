package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"curriculum-editor/internal/app"
	"curriculum-editor/internal/curriculum"
	pgstore "curriculum-editor/internal/infra/postgres"
	pgmigrations "curriculum-editor/internal/infra/postgres/migrations"
	infraredis "curriculum-editor/internal/infra/redis"
	"curriculum-editor/internal/payload"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestEditAndSaveEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedDatabase(t, ctx, pgURL, sampleCourse(), sampleBankActivity())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	newService := func() *app.EditorService {
		return app.NewEditorService(app.Dependencies{
			Sessions: infraredis.NewSessionStore(redisClient, 5*time.Minute),
			Courses:  pgstore.NewCourseStore(pool),
			Bank:     infraredis.NewBankRepository(redisClient, pgstore.NewBankLoader(pool), 5*time.Minute),
			Collapse: infraredis.NewCollapseRepository(redisClient, time.Hour),
			Money:    payload.NewMoney(payload.DefaultLocale),
		})
	}

	service := newService()
	v, err := service.Open(ctx, "course-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sid := v.SessionID

	if v, err = service.ImportActivity(ctx, sid, 0, "a-1"); err != nil {
		t.Fatalf("import activity: %v", err)
	}
	if got := len(v.Course.Modules[0].Activities); got != 2 {
		t.Fatalf("expected imported activity, got %d activities", got)
	}
	if _, err := service.Toggle(ctx, sid, curriculum.ModulePath(0)); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := service.SetField(ctx, sid, curriculum.Path{}, curriculum.FieldTitle, "Go, revised"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	v, err = service.Save(ctx, sid)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if v.Dirty {
		t.Fatalf("expected clean tree after save")
	}
	if err := service.Close(ctx, sid); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := newService().Open(ctx, "course-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Course.Title != "Go, revised" {
		t.Fatalf("expected persisted title, got %q", reopened.Course.Title)
	}
	acts := reopened.Course.Modules[0].Activities
	if len(acts) != 2 || acts[1].BankRefID != "a-1" || acts[1].VideoURL != "https://youtu.be/abc" {
		t.Fatalf("expected imported activity to persist, got %+v", acts)
	}
	// module 0 was expanded by the toggle and stays expanded
	for _, key := range reopened.Collapsed {
		if key == "0" {
			t.Fatalf("expected restored collapse state, got %v", reopened.Collapsed)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "editor", "POSTGRES_PASSWORD": "editorpass", "POSTGRES_DB": "curriculum"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://editor:editorpass@%s:%s/curriculum?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedDatabase(t *testing.T, ctx context.Context, dsn string, course payload.CourseRecord, activity payload.ActivityRecord) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(course)
	if err != nil {
		t.Fatalf("marshal course: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO courses (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, course.ID, string(data)); err != nil {
		t.Fatalf("insert course: %v", err)
	}
	data, err = json.Marshal(activity)
	if err != nil {
		t.Fatalf("marshal activity: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO bank_activities (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, activity.ID, string(data)); err != nil {
		t.Fatalf("insert bank activity: %v", err)
	}
}

func sampleCourse() payload.CourseRecord {
	return payload.CourseRecord{
		ID: "course-1", Name: "go", Title: "Go", DurationUnit: "min", Duration: 10, Installments: 1,
		Modules: []payload.ModuleRecord{{
			Title: "Basics", DurationUnit: "min", Duration: 10, Active: true,
			Activities: []payload.ActivityRecord{
				{Title: "Read", Type: "reading", Content: "<p>x</p>", Description: "<p>x</p>", DurationUnit: "min", Duration: 10, Active: true},
			},
		}},
	}
}

func sampleBankActivity() payload.ActivityRecord {
	return payload.ActivityRecord{
		ID: "a-1", Title: "Intro video", Type: "video", Content: "https://youtu.be/abc", DurationUnit: "min", Duration: 5, Active: true,
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
