package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/openfpl/fantasy-platform/external/footballdata"
	"github.com/openfpl/fantasy-platform/internal/config"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/account/authgate"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/postgres"
	"github.com/openfpl/fantasy-platform/internal/interfaces/httpapi"
	"github.com/openfpl/fantasy-platform/internal/platform/cache"
	idgen "github.com/openfpl/fantasy-platform/internal/platform/id"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
	"github.com/openfpl/fantasy-platform/internal/platform/resilience"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Server *http.Server
	DB     *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	leagueRepo := postgres.NewLeagueRepository(db)
	aggRepo := postgres.NewUserLeagueRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	badgeRepo := postgres.NewBadgeRepository(db)
	prizeRepo := postgres.NewPrizeRepository(db)
	boosterRepo := postgres.NewBoosterRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	coordinator := postgres.NewMembershipRepository(db)

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	leagueSvc := usecase.NewLeagueService(leagueRepo, store, logger)

	var provider usecase.SnapshotProvider
	if cfg.FootballDataEnabled {
		provider = footballdata.NewClient(footballdata.ClientConfig{
			BaseURL:    cfg.FootballDataBaseURL,
			Token:      cfg.FootballDataToken,
			Timeout:    cfg.FootballDataTimeout,
			MaxRetries: cfg.FootballDataMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FootballDataCircuitEnabled,
				FailureThreshold: cfg.FootballDataCircuitFailureCount,
				OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMax,
			},
		})
	}

	handler := httpapi.NewHandler(
		usecase.NewMembershipService(userRepo, leagueRepo, aggRepo, badgeRepo, prizeRepo, coordinator, logger),
		usecase.NewAggregateService(aggRepo, userRepo, leagueRepo, playerRepo, logger),
		leagueSvc,
		usecase.NewUserService(userRepo, logger),
		usecase.NewRewardService(badgeRepo, prizeRepo, boosterRepo, coordinator, idgen.NewRandomGenerator(), logger),
		usecase.NewMessageService(messageRepo, userRepo, idgen.NewRandomGenerator(), logger),
		usecase.NewRankService(aggRepo, cfg.RankWorkers, logger),
		usecase.NewSyncService(provider, leagueRepo, leagueSvc, cfg.SyncConcurrency, logger),
		logger,
	)

	verifier := authgate.NewClient(authgate.Config{
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		RequestTimeout: cfg.AccountTimeout,
		CacheTTL:       cfg.AccountCacheTTL,
		CacheMaxSize:   cfg.AccountCacheMaxSize,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMax,
		},
	}, nil, logger)

	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		DB: db,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
