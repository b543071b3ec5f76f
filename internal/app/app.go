package app

import (
	"errors"
	"fmt"
	"net/http"

	"finance-dashboard-go/internal/auth"
	"finance-dashboard-go/internal/config"
	"finance-dashboard-go/internal/db"
	analyticsdomain "finance-dashboard-go/internal/domain/analytics"
	txdomain "finance-dashboard-go/internal/domain/transactions"
	userdomain "finance-dashboard-go/internal/domain/user"
	"finance-dashboard-go/internal/events"
	"finance-dashboard-go/internal/repository/inmemory"
	txrepo "finance-dashboard-go/internal/repository/postgres/transactions"
	userrepo "finance-dashboard-go/internal/repository/postgres/user"
	"finance-dashboard-go/internal/transport/httpserver"
	"finance-dashboard-go/internal/transport/httpserver/handler"
	commonhandler "finance-dashboard-go/internal/transport/httpserver/handler/common"
	transactionshandler "finance-dashboard-go/internal/transport/httpserver/handler/transactions"
	"finance-dashboard-go/pkg/logger"
	"gorm.io/gorm"
)

// Services bundles the domain layer shared by the HTTP server and the CLI.
type Services struct {
	Users        *userdomain.Service
	Transactions *txdomain.Service
	Analytics    *analyticsdomain.Service
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	publisher  *events.Publisher
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}

	var publisher *events.Publisher
	var opts []txdomain.Option
	if cfg.AMQP.Enabled() {
		log.Info("app: connecting to amqp", "exchange", cfg.AMQP.Exchange)
		publisher, err = events.Dial(cfg.AMQP, log)
		if err != nil {
			_ = db.Close(dbConn)
			return nil, err
		}
		opts = append(opts, txdomain.WithPublisher(publisher))
	}

	services := NewServices(cfg, dbConn, log, opts...)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)

	log.Info("app: initializing router")
	handlers := handler.New(
		commonhandler.New(services.Users, tokens, log),
		transactionshandler.New(services.Transactions, services.Analytics, cfg.Export.TempDir, log),
	)
	router := httpserver.NewRouter(cfg, handlers, tokens, services.Users, log)

	if cfg.Auth.SkipAuth {
		log.Warn("auth: verification disabled, requests run as mock user", "user_id", cfg.Auth.MockUserID)
	}

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
		publisher:  publisher,
	}, nil
}

// Open connects to postgres and applies migrations when enabled.
func Open(cfg config.Config, log logger.Logger) (*gorm.DB, error) {
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(dbConn, log); err != nil {
			_ = db.Close(dbConn)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return dbConn, nil
}

func NewServices(cfg config.Config, dbConn *gorm.DB, log logger.Logger, opts ...txdomain.Option) Services {
	opts = append([]txdomain.Option{txdomain.WithLogger(log)}, opts...)
	transactions := txdomain.NewService(txrepo.NewPostgres(dbConn), opts...)
	return Services{
		Users:        userdomain.NewService(userrepo.NewPostgres(dbConn), userdomain.WithCache(inmemory.NewUserCache(), cfg.Auth.UserCacheTTL)),
		Transactions: transactions,
		Analytics:    analyticsdomain.NewService(transactions, cfg.Analytics.Location()),
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp: %w", err))
		}
	}
	if err := db.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}
