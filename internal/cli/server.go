package cli

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webinar-portal/internal/app"
	"webinar-portal/internal/config"
	"webinar-portal/internal/infra/memory"
	"webinar-portal/internal/infra/rabbitmq"
	infraredis "webinar-portal/internal/infra/redis"
	"webinar-portal/internal/logging"
	"webinar-portal/internal/metrics"
	transport "webinar-portal/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var events app.EventPublisher = app.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			// events are best-effort; the portal runs without them
			log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			defer pub.Close()
			events = pub
		}
	}

	registry := app.NewRegistry(b.participants, events, m, log.Named("registry"))
	verifier, err := app.NewStaticCredentials(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return err
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if b.redis != nil {
		questions = infraredis.NewQuestionRepository(b.redis, b.loader, quizTTL)
	} else {
		questions = memory.NewQuestionRepository(b.loader, quizTTL)
	}

	portalLog := log.Named("portal")
	newPortal := func() *app.Portal {
		return app.NewPortal(registry, questions, verifier, app.PortalOptions{
			Topic:         cfg.Quiz.Topic,
			QuestionCount: cfg.Quiz.QuestionCount,
			Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
			Metrics:       m,
			Logger:        portalLog,
		})
	}

	var sessions app.SessionRepository
	if b.redis != nil {
		sessions = infraredis.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute), newPortal)
	} else {
		sessions = memory.NewSessionStore(newPortal)
	}

	wsHandler := transport.NewWSHandler(app.NewPortalService(sessions, m), transport.WSOptions{
		RevealDelay:  config.TTLDuration(cfg.Quiz.RevealDelay, transport.DefaultRevealDelay),
		StoreTimeout: config.TTLDuration(cfg.Store.Timeout, transport.DefaultStoreTimeout),
		Logger:       log.Named("ws"),
	})

	gin.SetMode(cfg.Server.Mode)
	router := transport.NewRouter(transport.RouterDeps{
		Registry: registry,
		Verifier: verifier,
		WS:       wsHandler,
		Metrics:  m,
		Logger:   log.Named("http"),
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting webinar portal", zap.String("addr", server.Addr), zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
