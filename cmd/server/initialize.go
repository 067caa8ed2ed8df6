// Package server wires the engine together from a Config.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Shopify/sarama"
	"github.com/gin-gonic/gin"

	"fixengine/internal/acceptor"
	"fixengine/internal/admin/controller"
	"fixengine/internal/admin/repository"
	"fixengine/internal/admin/service"
	"fixengine/internal/config"
	"fixengine/internal/dictionary"
	"fixengine/internal/gateway"
	"fixengine/internal/initiator"
	"fixengine/internal/session"
	"fixengine/internal/store"
	"fixengine/pkg/collector"
	"fixengine/pkg/kafka/consumer"
	"fixengine/pkg/kafka/producer"
	"fixengine/pkg/logs"
	"fixengine/pkg/metrics"
	"fixengine/pkg/middleware"
	"fixengine/pkg/utils"
)

type Mode string

const (
	ModeAcceptor  Mode = "acceptor"
	ModeInitiator Mode = "initiator"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg  *config.Config
	mode Mode

	store    store.MessageStore
	registry *session.Registry
	app      *gateway.Application
	producer *producer.Producer
	consumer sarama.Consumer

	engine  *gin.Engine
	metrics *metrics.Metrics
}

// New opens the store and Kafka clients and registers every configured
// session. The session loops stop when ctx is done.
func New(ctx context.Context, cfg *config.Config, mode Mode) (*Server, error) {
	if mode == ModeInitiator && cfg.ConnectAddr == "" {
		return nil, errors.New("server: FIX_CONNECT_ADDR is required for an initiator")
	}

	s := &Server{cfg: cfg, mode: mode}
	var err error
	if s.store, err = store.New(ctx, cfg.Store); err != nil {
		return nil, err
	}

	publisher := gateway.LogPublisher
	if len(cfg.KafkaBrokers) > 0 {
		if s.producer, err = producer.KafkaProducer(cfg.KafkaBrokers); err != nil {
			s.Close()
			return nil, err
		}
		if s.consumer, err = consumer.NewConsumer(cfg.KafkaBrokers); err != nil {
			s.Close()
			return nil, err
		}
		publisher = s.producer
	}
	s.app = gateway.NewApplication(publisher, gateway.Topics{
		Orders: cfg.KafkaOrderTopic,
		Events: cfg.KafkaEventTopic,
	})

	dicts, err := loadDictionaries(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.registry = session.NewRegistry(ctx)
	for _, id := range cfg.Sessions {
		var opts []session.Option
		if d, ok := dicts[id.BeginString]; ok {
			opts = append(opts, session.WithDictionary(d))
		}
		sess, err := session.New(ctx, cfg.SessionSettings(id, mode == ModeInitiator), s.store, s.app, opts...)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("server: session %s: %w", id, err)
		}
		if err := s.registry.Register(sess); err != nil {
			s.Close()
			return nil, fmt.Errorf("server: session %s: %w", id, err)
		}
	}

	s.engine = newEngine(cfg)
	svc := service.NewSessionService(s.registry, repository.NewMessageRepo(s.store))
	controller.NewSessionHandler(s.engine, svc, middleware.Authenticate(cfg.AdminJWTSecret))

	s.metrics = metrics.NewMetrics(":" + cfg.MetricsPort)
	s.metrics.RegisterCollector(collector.All()...)
	return s, nil
}

func loadDictionaries(cfg *config.Config) (map[string]*dictionary.Dictionary, error) {
	opt := dictionary.WithStrict(cfg.DictionaryStrict)
	paths := utils.SplitList(cfg.DictionaryPath)

	out := make(map[string]*dictionary.Dictionary)
	if len(paths) == 0 {
		d, err := dictionary.Default(opt)
		if err != nil {
			return nil, err
		}
		out[d.BeginString] = d
		return out, nil
	}
	for _, p := range paths {
		d, err := dictionary.LoadFile(p, opt)
		if err != nil {
			return nil, err
		}
		out[d.BeginString] = d
	}
	return out, nil
}

func newEngine(cfg *config.Config) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestDuration())
	engine.Use(middleware.RateLimiter(middleware.NewLimiter(cfg.RateLimiterPeriod, cfg.RateLimiterMaxRequests)))
	return engine
}

// Run serves FIX, the admin API and metrics until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, len(s.cfg.Sessions)+4)
	running := 0
	start := func(name string, fn func() error) {
		running++
		go func() {
			err := fn()
			if err != nil {
				logs.Log.Error().Err(err).Str("component", name).Msg("component stopped")
			}
			errc <- err
		}()
	}

	srv := &http.Server{Addr: ":" + s.cfg.Port, Handler: s.engine}
	msrv := s.metrics.Server()
	start("api", func() error { return listen(srv) })
	start("metrics", func() error { return listen(msrv) })

	if s.consumer != nil {
		executions := gateway.NewExecutions(s.registry)
		start("kafka", func() error {
			return consumer.KafkaConsumer(ctx, s.consumer, []string{s.cfg.KafkaExecutionTopic}, executions.HandleConsume)
		})
	}

	switch s.mode {
	case ModeInitiator:
		for _, sess := range s.registry.List() {
			i := initiator.New(sess, s.cfg.ConnectAddr)
			start("initiator", func() error { return i.Run(ctx) })
		}
	default:
		a := acceptor.New(s.registry, s.cfg.LogonTimeout)
		start("acceptor", func() error { return a.ListenAndServe(ctx, s.cfg.ListenAddr) })
	}
	logs.Log.Info().Str("mode", string(s.mode)).Str("port", s.cfg.Port).Int("sessions", len(s.cfg.Sessions)).Msg("engine started")

	var firstErr error
	select {
	case <-ctx.Done():
	case firstErr = <-errc:
		running--
	}

	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		logs.Log.Error().Err(err).Msg("api shutdown")
	}
	if err := msrv.Shutdown(shutdown); err != nil {
		logs.Log.Error().Err(err).Msg("metrics shutdown")
	}
	if ctx.Err() == nil {
		return firstErr
	}
	for ; running > 0; running-- {
		select {
		case <-errc:
		case <-shutdown.Done():
			return firstErr
		}
	}
	return firstErr
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close removes the sessions and releases the store and Kafka clients.
func (s *Server) Close() {
	if s.registry != nil {
		s.registry.Close()
	}
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			logs.Log.Error().Err(err).Msg("kafka producer close")
		}
	}
	if s.consumer != nil {
		if err := s.consumer.Close(); err != nil {
			logs.Log.Error().Err(err).Msg("kafka consumer close")
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logs.Log.Error().Err(err).Msg("store close")
		}
	}
}

// Engine exposes the admin router.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Registry() *session.Registry {
	return s.registry
}
