package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"crossledger/internal/authority"
	"crossledger/internal/bridge"
	"crossledger/internal/bridge/inbox"
	"crossledger/internal/events"
	"crossledger/internal/jwt_token"
	ledgermetrics "crossledger/internal/ledger/metrics"
	"crossledger/internal/ledger/models"
	"crossledger/internal/ledger/service"
	ledgerstore "crossledger/internal/ledger/store"
	"crossledger/internal/ledger/store/memory"
	ledgerpg "crossledger/internal/ledger/store/postgres"
	"crossledger/internal/platform/config"
	"crossledger/internal/platform/httpserver"
	"crossledger/internal/platform/kafka"
	"crossledger/internal/platform/logger"
	pgplatform "crossledger/internal/platform/postgres"
	redisplatform "crossledger/internal/platform/redis"
	httptransport "crossledger/internal/transport/http"
	"crossledger/pkg/domain"
)

// main wires one ledger instance: config, backing services, domain services,
// and the HTTP surface. Business rules live in the internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		// No logger yet; this is the one unstructured exit.
		panic(err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("crossledger exited")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	owner, err := domain.ParsePrincipal(cfg.Owner)
	if err != nil {
		return err
	}
	bridgeIdentity, err := domain.ParsePrincipal(cfg.BridgeIdentity)
	if err != nil {
		return err
	}
	initialSupply, err := domain.ParseAmount(cfg.InitialSupply)
	if err != nil {
		return err
	}

	pool, err := pgplatform.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := redisplatform.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	kafkaClient, err := kafka.New(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
	}

	// Event plumbing.
	eventMetrics := events.NewMetrics()
	bus := events.NewBus(1024, log, eventMetrics)
	var journal events.Store
	if pool != nil {
		pg := events.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		journal = pg
	} else {
		journal = events.NewInMemoryStore(0)
	}
	var publisher *events.Publisher
	if kafkaClient != nil {
		publisher = events.NewPublisher(kafkaClient, cfg.KafkaTopic, eventMetrics)
	}
	worker := events.NewWorker(bus, journal, publisher, log)

	// Ledger, authority, and bridge over the selected store.
	var st ledgerstore.Store
	var authStore authority.Store
	if pool != nil {
		lpg := ledgerpg.New(pool)
		if err := lpg.EnsureSchema(ctx); err != nil {
			return err
		}
		st = lpg

		apg := authority.NewPostgres(pool)
		if err := apg.EnsureSchema(ctx); err != nil {
			return err
		}
		authStore = apg
	} else {
		log.Warn().Msg("no postgres configured, ledger state is in-memory and volatile")
		st = memory.New()
		authStore = authority.NewInMemoryStore()
	}

	token, err := service.New(ctx, service.Config{
		Metadata: models.Metadata{
			Name:     cfg.TokenName,
			Symbol:   cfg.TokenSymbol,
			Decimals: cfg.TokenDecimals,
			DomainID: domain.DomainID(cfg.DomainID),
		},
		OriginDomainID: domain.DomainID(cfg.OriginDomainID),
		InitialSupply:  initialSupply,
		Owner:          owner,
	}, st, bus, ledgermetrics.New(), log)
	if err != nil {
		return err
	}

	auth, err := authority.New(ctx, authStore, owner, bus, domain.DomainID(cfg.DomainID), log)
	if err != nil {
		return err
	}

	bridgeMetrics := bridge.NewMetrics()
	gate := bridge.NewGate(bridgeIdentity, st, bus, domain.DomainID(cfg.DomainID), bridgeMetrics, log)

	var ibx inbox.Inbox = inbox.NewInMemory()
	if redisClient != nil {
		ibx = inbox.NewRedis(redisClient.Client, inbox.DefaultRetention)
	}

	health := map[string]httptransport.HealthChecker{}
	if pool != nil {
		health["postgres"] = healthFunc(pool.Ping)
	}
	if redisClient != nil {
		health["redis"] = healthFunc(redisClient.Health)
	}
	if kafkaClient != nil {
		health["kafka"] = healthFunc(kafkaClient.Ping)
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "crossledger")
	handler := httptransport.NewHandler(token, auth, gate, ibx, bridgeMetrics, health, log)
	router := httptransport.NewRouter(handler, tokens, promhttp.Handler(), log)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		log.Info().
			Str("addr", cfg.Addr).
			Uint64("domain_id", cfg.DomainID).
			Str("bridge_identity", bridgeIdentity.String()).
			Msg("crossledger listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return httpserver.Shutdown(srv)
	})

	return g.Wait()
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }
