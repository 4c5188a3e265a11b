package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/nutrifit/internal/analytics"
	"github.com/2beens/nutrifit/internal/config"
	"github.com/2beens/nutrifit/internal/db"
	"github.com/2beens/nutrifit/internal/gamification/localstore"
	"github.com/2beens/nutrifit/internal/gamification/remote"
	"github.com/2beens/nutrifit/internal/meals"
	"github.com/2beens/nutrifit/internal/middleware"
	"github.com/2beens/nutrifit/internal/rewards"
	"github.com/2beens/nutrifit/internal/telemetry/metrics"
	"github.com/2beens/nutrifit/internal/telemetry/tracing"
	"github.com/2beens/nutrifit/internal/workout"
	"github.com/2beens/nutrifit/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config    *config.Config
	appSecret string
	dbPool    *pgxpool.Pool

	redisClient    *redis.Client
	rateLimiter    middleware.RequestRateLimiter
	rewardsService *rewards.Service
	syncRetrier    *rewards.SyncRetrier
	amqpSink       *analytics.AMQPSink

	rewardsHandler   *rewards.Handler
	mealsHandler     *meals.Handler
	analyticsHandler *analytics.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		TracingEnabled: params.Secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		// remote syncs stay pending until the db is back
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.NewRegistry(pgxpoolCollector)
	metricsManager := metrics.NewManager("nutrifit", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0,
	})

	var localStore localstore.Store
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s; using the in-process local store", err)
		localStore = localstore.NewCacheStore(cfg.LocalCacheSizeMB)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
		localStore = localstore.NewRedisStore(rdb)
	}

	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName, rdb)
	if err != nil {
		dbPool.Close()
		return nil, multierr.Combine(err, rdb.Close())
	}

	workouts, err := workout.LoadCatalog(cfg.WorkoutsPath)
	if err != nil {
		otelShutdown()
		dbPool.Close()
		return nil, multierr.Combine(fmt.Errorf("load workouts: %w", err), rdb.Close())
	}
	log.Debugf("loaded %d workouts from [%s]", len(workouts.IDs()), cfg.WorkoutsPath)

	sinks := analytics.MultiSink{
		analytics.LogSink{},
		analytics.NewMetricsSink(metricsManager),
	}
	var amqpSink *analytics.AMQPSink
	if params.Secrets.AMQPURL != "" {
		amqpSink, err = analytics.DialAMQPSink(params.Secrets.AMQPURL, cfg.AMQPExchange, cfg.AMQPBuffer)
		if err != nil {
			log.Errorf("analytics amqp sink disabled: %s", err)
		} else {
			sinks = append(sinks, amqpSink)
		}
	}

	rewardsService := rewards.NewService(rewards.ServiceParams{
		Local:       localStore,
		Remote:      remote.NewPsqlStore(dbPool),
		Sink:        sinks,
		Metrics:     metricsManager,
		SyncTimeout: cfg.SyncTimeout.Duration,
		Now:         cfg.Clock(),
	})

	syncRetrier, err := rewards.NewSyncRetrier(rewardsService, cfg.SyncRetryInterval.Duration)
	if err != nil {
		rewardsService.Close()
		otelShutdown()
		dbPool.Close()
		return nil, multierr.Combine(fmt.Errorf("new sync retrier: %w", err), rdb.Close())
	}

	s := &Server{
		config:      cfg,
		appSecret:   params.Secrets.AppSecret,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:    rdb,
		rateLimiter:    redis_rate.NewLimiter(rdb),
		rewardsService: rewardsService,
		syncRetrier:    syncRetrier,
		amqpSink:       amqpSink,

		rewardsHandler:   rewards.NewHandler(rewardsService, workouts),
		mealsHandler:     meals.NewHandler(meals.NewRepo(dbPool), rewardsService, cfg.Location()),
		analyticsHandler: analytics.NewHandler(sinks),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("nutrifit-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")

	s.rewardsHandler.SetupRoutes(r)
	s.mealsHandler.SetupRoutes(r)

	analyticsRouter := r.PathPrefix("/analytics").Subrouter()
	analyticsRouter.HandleFunc("/events", s.analyticsHandler.HandleEvent).Methods("POST", "OPTIONS").Name("analytics-event")
	analyticsRouter.Use(middleware.RateLimit(
		s.rateLimiter,
		s.metricsManager,
		"analytics",
		s.config.AnalyticsRateLimitPerMin,
	))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.appSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "nutrifit "+s.versionInfo)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var err error
	if s.dbPool != nil {
		err = multierr.Append(err, s.dbPool.Ping(ctx))
	}
	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Ping(ctx).Err())
	}
	if err != nil {
		log.Warnf("health check: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "degraded", http.StatusServiceUnavailable)
		return
	}
	pkg.WriteTextResponseOK(w, "ok")
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler(s.promRegistry))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.syncRetrier.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

// GracefulShutdown stops accepting requests first, then flushes pending work
// (remote syncs, analytics) and closes the backing stores.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.syncRetrier != nil {
		s.syncRetrier.Stop()
	}
	if s.rewardsService != nil {
		// one last attempt for whatever is still pending
		s.rewardsService.SyncPending()
		s.rewardsService.Close()
		log.Debugf("rewards service closed, %d syncs still pending", s.rewardsService.PendingSyncs())
	}

	if s.amqpSink != nil {
		if closeErr := s.amqpSink.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close amqp sink: %w", closeErr))
		}
		if dropped := s.amqpSink.Dropped(); dropped > 0 {
			log.Warnf("analytics amqp sink dropped %d events", dropped)
		}
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
