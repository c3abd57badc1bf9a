package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"webinar-portal/internal/app"
	"webinar-portal/internal/config"
	"webinar-portal/internal/infra/memory"
	"webinar-portal/internal/infra/mysql"
	pgstore "webinar-portal/internal/infra/postgres"
	"webinar-portal/internal/infra/remote"
)

// loadConfig reads the YAML config, falling back to defaults when the file does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// backends holds the stores selected by config and the hooks to release them.
type backends struct {
	participants app.ParticipantStore
	loader       memory.QuestionLoader
	pool         *pgxpool.Pool
	redis        *redis.Client
	closers      []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{loader: memory.NewStaticQuestionLoader(memory.DefaultQuestionPools())}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		b.closers = append(b.closers, pool.Close)
		b.loader = pgstore.NewQuestionLoader(pool)
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		b.participants = pgstore.NewParticipantStore(b.pool, cfg.Quiz.Topic)
	case config.DriverMySQL:
		db, err := mysql.Open(cfg.MySQL.DSN)
		if err != nil {
			b.Close()
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			b.closers = append(b.closers, func() { _ = sqlDB.Close() })
		}
		b.participants = mysql.NewParticipantStore(db, cfg.Quiz.Topic)
	case config.DriverRemote:
		timeout := config.TTLDuration(cfg.Store.Timeout, 5*time.Second)
		store := remote.NewParticipantStore(cfg.Store.RemoteURL, timeout)
		if cfg.Store.RemoteUsername != "" {
			store = store.WithBasicAuth(cfg.Store.RemoteUsername, cfg.Store.RemotePassword)
		}
		b.participants = store
	default:
		b.participants = memory.NewParticipantStore(cfg.Quiz.Topic)
	}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = b.redis.Close() })
	}

	log.Info("backends ready",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("postgres_questions", b.pool != nil),
		zap.Bool("redis", b.redis != nil),
	)
	return b, nil
}
